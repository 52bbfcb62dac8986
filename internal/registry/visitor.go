package registry

import (
	"fmt"

	"modelgraph/internal/decl"
	"modelgraph/internal/diag"
	"modelgraph/internal/known"
	"modelgraph/internal/trace"
)

// visit walks one usage and registers every declared type it reaches.
func (r *Registry) visit(u decl.Usage, rc *refContext) error {
	switch u.Kind {
	case decl.UsagePrimitive:
		return nil

	case decl.UsageArray, decl.UsageContainer:
		return r.visitPtr(u.Elem, rc)

	case decl.UsageMap:
		if err := r.visitPtr(u.Key, rc); err != nil {
			return err
		}
		return r.visitPtr(u.Value, rc)

	case decl.UsageTypeVar:
		return r.visitPtr(u.Bound, rc)

	case decl.UsageWildcard:
		if u.Extends != nil {
			ext := *u.Extends
			if b, ok, err := r.ctx.Adapters.ForUsage(ext); err != nil {
				return r.incomplete(ext.ID, err, rc)
			} else if ok && b != nil {
				return r.visit(b.Target, rc)
			}
			return r.visit(ext, rc)
		}
		return r.visitPtr(u.Super, rc)

	case decl.UsageAdapted:
		// the adapter wrapper itself is never modeled
		return r.visitPtr(u.Target, rc)

	case decl.UsageDeclared:
		return r.visitDeclared(u, rc)

	case decl.UsageUnsupported:
		r.unsupported(u.Name, rc)
		return nil

	case decl.UsageInvalid:
		r.unsupported("empty usage", rc)
		return nil

	default:
		r.unsupported(fmt.Sprintf("usage kind %s", u.Kind), rc)
		return nil
	}
}

func (r *Registry) visitPtr(u *decl.Usage, rc *refContext) error {
	if u == nil {
		return nil
	}
	return r.visit(*u, rc)
}

func (r *Registry) visitDeclared(u decl.Usage, rc *refContext) error {
	if u.ID == known.RootObject {
		return nil
	}
	if rc.visiting(u.ID) {
		return nil
	}
	if r.ctx.Known.Has(u.ID) {
		trace.Record(r.tracer, trace.ActionKnown, string(u.ID), "", r.span)
		return r.visitArgs(u, rc)
	}

	defer rc.descend(u.ID)()

	d, err := r.resolve(u.ID, rc)
	if err != nil {
		return err
	}
	if d == nil {
		r.unsupported(fmt.Sprintf("%s is not part of the program model", u.ID), rc)
		return r.visitArgs(u, rc)
	}
	if !r.ignored(d) {
		if err := r.register(d, rc); err != nil {
			return err
		}
	}
	return r.visitArgs(u, rc)
}

func (r *Registry) visitArgs(u decl.Usage, rc *refContext) error {
	for _, arg := range u.Args {
		if err := r.visit(arg, rc); err != nil {
			return err
		}
	}
	return nil
}

// unsupported notes a usage the visitor cannot classify on the definition
// that owns it. It never fails the traversal.
func (r *Registry) unsupported(what string, rc *refContext) {
	owner := rc.owner()
	member := rc.member()
	if owner != nil {
		owner.Note(member, what)
	}
	var subject decl.Identity
	if owner != nil {
		subject = owner.ID
	}
	msg := "unsupported usage: " + what
	if member != "" {
		msg = fmt.Sprintf("member %q: %s", member, msg)
	}
	diag.ReportInfo(r.reporter, diag.ModelUnsupportedUsage, subject, msg).WithChain(rc.chain()).Emit()
}
