// Package registry discovers every type reachable from a set of root
// declarations and stores one definition per identity.
//
// A Registry is single-threaded: Add and AddRoots must not be called
// concurrently. Once traversal is complete, Freeze hands out a read-only view
// that is safe to share.
package registry

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"

	"modelgraph/internal/decl"
	"modelgraph/internal/diag"
	"modelgraph/internal/known"
	"modelgraph/internal/model"
	"modelgraph/internal/trace"
)

// ErrFrozen is returned by Add after Freeze.
var ErrFrozen = errors.New("registry is frozen")

// sourceMissingInfoLimit is how many missing source positions are reported
// at info severity; later ones only reach the debug trace.
const sourceMissingInfoLimit = 3

// Options tune a Registry. The zero value is usable.
type Options struct {
	// Ignore marks declarations skipped by the visitor and the subtype scan,
	// in addition to what the front-end reports as ignorable.
	Ignore func(decl.Identity) bool
	// Exclude marks declarations configuration would rather not model.
	// Reachable excluded types are still registered, with a warning.
	Exclude  func(decl.Identity) bool
	Reporter diag.Reporter
	Tracer   trace.Tracer
}

// Registry is the mutable identity -> definition store.
type Registry struct {
	ctx      *model.Context
	factory  *model.Factory
	ignore   func(decl.Identity) bool
	exclude  func(decl.Identity) bool
	reporter diag.Reporter
	tracer   trace.Tracer
	span     uint64

	defs  map[decl.Identity]*model.TypeDefinition
	order []decl.Identity
	index map[decl.Identity]uint32
	// substituted maps an adapted declaration to the identity modeled in
	// its place; "" means nothing is modeled for it.
	substituted map[decl.Identity]decl.Identity

	missingPos int
	err        error
	frozen     bool
}

// New creates an empty registry over ctx.
func New(ctx *model.Context, opts Options) *Registry {
	r := &Registry{
		ctx:         ctx,
		factory:     model.NewFactory(ctx),
		ignore:      opts.Ignore,
		exclude:     opts.Exclude,
		reporter:    opts.Reporter,
		tracer:      opts.Tracer,
		defs:        make(map[decl.Identity]*model.TypeDefinition),
		index:       make(map[decl.Identity]uint32),
		substituted: make(map[decl.Identity]decl.Identity),
	}
	if r.reporter == nil {
		r.reporter = diag.NopReporter{}
	}
	if r.tracer == nil {
		r.tracer = trace.Nop
	}
	return r
}

// AddRoots registers every root the front-end lists, one traced span per root.
func (r *Registry) AddRoots(ctx context.Context) error {
	parent := trace.ParentSpan(ctx)
	for _, id := range r.ctx.Frontend.Roots() {
		span := trace.Begin(r.tracer, trace.ScopeRoot, string(id), parent)
		prev := r.span
		r.span = span.ID()
		before := len(r.order)
		err := r.Add(id, nil)
		r.span = prev
		span.WithExtra("registered", fmt.Sprint(len(r.order)-before)).End("")
		if err != nil {
			return err
		}
	}
	return nil
}

// Add registers id and everything reachable from it. chain is the provenance
// recorded on id's definition; nil for a root. Adding an identity that is
// already registered, known, or adapted away is a no-op.
//
// A fatal error leaves the registry poisoned: later calls to Add and Freeze
// return the same error.
func (r *Registry) Add(id decl.Identity, chain []decl.Ref) error {
	if err := r.usable(); err != nil {
		return err
	}
	if id == known.RootObject || r.ctx.Known.Has(id) {
		return nil
	}
	rc := newRefContext(chain)
	d, err := r.resolve(id, rc)
	if err == nil && d == nil {
		err = &decl.ConfigError{Subject: id, Reason: "declaration cannot be resolved"}
	}
	if err == nil {
		err = r.register(d, rc)
	}
	if err != nil {
		r.err = err
		trace.Record(r.tracer, trace.ActionPoisoned, string(id), err.Error(), r.span)
	}
	return err
}

// Has reports whether id has a definition.
func (r *Registry) Has(id decl.Identity) bool {
	_, ok := r.defs[id]
	return ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int { return len(r.order) }

// Err returns the error that poisoned the registry, if any.
func (r *Registry) Err() error { return r.err }

// Substitute reports which identity is modeled in place of id. ok is false
// when id was never adapted; an empty target means nothing is modeled.
func (r *Registry) Substitute(id decl.Identity) (target decl.Identity, ok bool) {
	target, ok = r.substituted[id]
	return target, ok
}

// Freeze ends traversal and returns the read-only view.
func (r *Registry) Freeze() (*Frozen, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.frozen = true
	return newFrozen(r.defs, r.order, r.index), nil
}

func (r *Registry) usable() error {
	if r.err != nil {
		return r.err
	}
	if r.frozen {
		return ErrFrozen
	}
	return nil
}

// register builds d's definition, stores it before recursing, then runs the
// subtype discoverer and walks members, value and superclass.
func (r *Registry) register(d *decl.Declaration, rc *refContext) error {
	if r.settled(d.ID) || r.ctx.Known.Has(d.ID) {
		return nil
	}

	def, err := r.factory.Create(d)
	if err != nil {
		return r.createFailed(d.ID, err, rc)
	}
	if def == nil {
		r.substituted[d.ID] = ""
		trace.Record(r.tracer, trace.ActionAdapted, string(d.ID), "", r.span)
		return nil
	}
	if def.ID != d.ID {
		r.substituted[d.ID] = def.ID
		if r.settled(def.ID) {
			return nil
		}
		nd, err := r.resolve(def.ID, rc)
		if err != nil {
			return err
		}
		d = nd
	}

	def.Provenance = rc.chain()
	if err := r.store(def); err != nil {
		return err
	}
	r.inspect(def)

	defer rc.own(def)()
	defer rc.descend(d.ID)()
	defer rc.refer(decl.Ref{ID: d.ID})()

	if err := r.discover(d, rc); err != nil {
		return err
	}
	for i := range def.Members {
		if err := r.walkMember(def, &def.Members[i], rc); err != nil {
			return err
		}
	}
	if def.Value != nil {
		if err := r.walkMember(def, def.Value, rc); err != nil {
			return err
		}
	}
	if !r.ctx.CollapseHierarchy && d.Super != nil {
		defer rc.refer(decl.Ref{ID: d.ID, Via: "super"})()
		if err := r.visit(*d.Super, rc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) walkMember(def *model.TypeDefinition, m *model.Member, rc *refContext) error {
	defer rc.refer(decl.Ref{ID: def.ID, Member: m.Name})()
	if m.Hint != nil {
		// a hinted member is modeled as the hint alone
		return r.visit(*m.Hint, rc)
	}
	if err := r.memberSeeAlso(def.ID, m.SeeAlso, rc); err != nil {
		return err
	}
	if err := r.visit(m.Modeled(), rc); err != nil {
		return err
	}
	for i := range m.Choices {
		if err := r.visit(m.Choices[i].Modeled(), rc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) store(def *model.TypeDefinition) error {
	pos, err := safecast.Conv[uint32](len(r.order))
	if err != nil {
		return fmt.Errorf("registry: too many definitions: %w", err)
	}
	r.defs[def.ID] = def
	r.index[def.ID] = pos
	r.order = append(r.order, def.ID)
	trace.Record(r.tracer, trace.ActionRegister, string(def.ID), def.Kind.String(), r.span)
	return nil
}

// inspect reports the non-fatal findings about a fresh definition.
func (r *Registry) inspect(def *model.TypeDefinition) {
	if r.exclude != nil && r.exclude(def.ID) {
		diag.ReportWarning(r.reporter, diag.ModelForcedInclusion, def.ID,
			fmt.Sprintf("registered even though configuration excludes it; it is referenced from %s, so it is kept to prevent broken references", referencedFrom(def.Provenance))).
			WithChain(def.Provenance).Emit()
	}

	for _, n := range def.Unsupported {
		diag.ReportWarning(r.reporter, diag.ModelValueWithSiblings, def.ID,
			fmt.Sprintf("member %q: %s", n.Member, n.Reason)).Emit()
	}

	if def.Pos == "" {
		r.missingPos++
		if r.missingPos <= sourceMissingInfoLimit {
			diag.ReportInfo(r.reporter, diag.ModelSourceMissing, def.ID, "unable to find source file").Emit()
		} else {
			trace.Record(r.tracer, trace.ActionSourceMissing, string(def.ID), "", r.span)
		}
	}
}

// referencedFrom names the innermost referrer and its owner.
func referencedFrom(chain []decl.Ref) string {
	switch n := len(chain); n {
	case 0:
		return "an unknown location"
	case 1:
		return chain[0].String()
	default:
		return chain[n-1].String() + " of " + chain[n-2].String()
	}
}

// settled reports whether id needs no further work.
func (r *Registry) settled(id decl.Identity) bool {
	if _, ok := r.defs[id]; ok {
		return true
	}
	_, ok := r.substituted[id]
	return ok
}

func (r *Registry) ignored(d *decl.Declaration) bool {
	if r.ctx.Frontend.Ignorable(d) {
		return true
	}
	return r.ignore != nil && r.ignore(d.ID)
}

func (r *Registry) resolve(id decl.Identity, rc *refContext) (*decl.Declaration, error) {
	d, err := r.ctx.Frontend.Resolve(id)
	if err != nil {
		return nil, r.incomplete(id, err, rc)
	}
	return d, nil
}

// createFailed attributes a factory failure to the identity that failed. A
// member type that cannot be resolved is reported through the member that
// reaches it, as if the walk had got there.
func (r *Registry) createFailed(id decl.Identity, err error, rc *refContext) error {
	var me *model.MemberError
	if !errors.As(err, &me) || me.Type == "" {
		return r.incomplete(id, err, rc)
	}
	defer rc.refer(decl.Ref{ID: me.Owner})()
	defer rc.refer(decl.Ref{ID: me.Owner, Member: me.Member})()
	return r.incomplete(me.Type, me.Err, rc)
}

// incomplete attaches the provenance chain to a front-end failure. Errors
// that already carry a chain, and configuration errors, pass through.
func (r *Registry) incomplete(id decl.Identity, err error, rc *refContext) error {
	var inc *decl.IncompleteModelError
	if errors.As(err, &inc) {
		return err
	}
	var cfg *decl.ConfigError
	if errors.As(err, &cfg) {
		return err
	}
	if errors.Is(err, decl.ErrIncompleteModel) {
		return &decl.IncompleteModelError{Chain: rc.chainWith(id), Err: err}
	}
	return fmt.Errorf("resolve %s: %w", id, err)
}
