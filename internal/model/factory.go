package model

import (
	"fmt"

	"modelgraph/internal/adapter"
	"modelgraph/internal/decl"
	"modelgraph/internal/known"
)

// Context bundles the collaborators every stage of a run shares. It is
// passed explicitly; there is no package-level model state.
type Context struct {
	Frontend          decl.Frontend
	Known             *known.Table
	Adapters          *adapter.Resolver
	CollapseHierarchy bool
}

// NewContext wires a context with a resolver built from the given table.
func NewContext(fe decl.Frontend, table *known.Table, collapse bool) *Context {
	return &Context{
		Frontend:          fe,
		Known:             table,
		Adapters:          adapter.NewResolver(fe, table, nil, nil),
		CollapseHierarchy: collapse,
	}
}

// MemberError reports that the adapter lookup for a member's type failed.
// Type is the identity the lookup was resolving, not the member's owner.
type MemberError struct {
	Owner  decl.Identity
	Member string
	Type   decl.Identity
	Err    error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Owner, e.Member, e.Err)
}

func (e *MemberError) Unwrap() error { return e.Err }

// Factory builds detached TypeDefinitions. It never touches a registry.
type Factory struct {
	ctx *Context
}

// NewFactory returns a factory bound to ctx.
func NewFactory(ctx *Context) *Factory {
	return &Factory{ctx: ctx}
}

// Create classifies d and builds its definition. The declaration is narrowed
// through its adapter first; a nil definition means the adapter substitutes a
// primitive or known type and nothing is to be modeled.
func (f *Factory) Create(d *decl.Declaration) (*TypeDefinition, error) {
	nd, err := f.ctx.Adapters.Narrow(d)
	if err != nil || nd == nil {
		return nil, err
	}
	nd, err = f.ctx.Adapters.Apply(nd)
	if err != nil {
		return nil, err
	}

	def := &TypeDefinition{
		ID:     nd.ID,
		Pos:    nd.Pos,
		Format: f.ctx.Known.Format(nd.ID),
	}
	if nd.Kind == decl.KindEnum && !nd.Directives.EnumAsObject {
		def.Kind = KindEnum
		def.Constants = append([]string(nil), nd.Constants...)
		return def, nil
	}

	def.Kind = KindObject
	def.Abstract = nd.Kind == decl.KindInterface
	if err := f.collectMembers(def, nd); err != nil {
		return nil, err
	}
	f.setSuper(def, nd)
	return def, nil
}

func (f *Factory) collectMembers(def *TypeDefinition, d *decl.Declaration) error {
	var values []Member
	for i := range d.Members {
		dm := &d.Members[i]
		if dm.Ignored {
			continue
		}
		m, err := f.member(d.ID, dm)
		if err != nil {
			return err
		}
		if dm.Value {
			values = append(values, m)
			continue
		}
		def.Members = append(def.Members, m)
	}

	switch {
	case len(values) == 1 && len(def.Members) == 0:
		def.Kind = KindSimple
		def.Value = &values[0]
	case len(values) > 0:
		// a value next to structural members is modeled as a plain member
		for _, v := range values {
			def.Note(v.Name, "value accessor alongside structural members")
		}
		def.Members = append(def.Members, values...)
	}
	return nil
}

func (f *Factory) member(owner decl.Identity, dm *decl.Member) (Member, error) {
	m := Member{
		Name:    dm.Name,
		Type:    dm.Type,
		Hint:    dm.Hint,
		SeeAlso: append([]decl.Identity(nil), dm.SeeAlso...),
	}
	b, ok, err := f.ctx.Adapters.ForMember(dm)
	if err != nil {
		return Member{}, &MemberError{Owner: owner, Member: dm.Name, Type: dm.Type.ID, Err: err}
	}
	if ok {
		m.Adapter = b
	}
	for _, c := range dm.Choices {
		ch := Choice{Name: c.Name, Namespace: c.Namespace, Type: c.Type, Adapter: c.Adapter}
		if ch.Adapter == nil {
			cb, ok, err := f.ctx.Adapters.ForUsage(c.Type)
			if err != nil {
				return Member{}, &MemberError{Owner: owner, Member: dm.Name, Type: c.Type.ID, Err: err}
			}
			if ok {
				ch.Adapter = cb
			}
		}
		m.Choices = append(m.Choices, ch)
	}
	return m, nil
}

func (f *Factory) setSuper(def *TypeDefinition, d *decl.Declaration) {
	if f.ctx.CollapseHierarchy || d.Super == nil || d.Super.Kind != decl.UsageDeclared {
		return
	}
	if d.Super.ID == known.RootObject || f.ctx.Known.Has(d.Super.ID) {
		return
	}
	u := *d.Super
	def.Super = u.ID
	def.SuperUsage = &u
}
