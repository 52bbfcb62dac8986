package adapter

import "modelgraph/internal/decl"

// Apply returns d with its mixin's directives layered on top. The front-end's
// declaration is never modified; a copy is returned when a mixin applies.
func (r *Resolver) Apply(d *decl.Declaration) (*decl.Declaration, error) {
	mx, err := r.Mixin(d)
	if err != nil || mx == nil {
		return d, err
	}
	return overlay(d, mx), nil
}

func overlay(d, mx *decl.Declaration) *decl.Declaration {
	out := *d
	out.Members = make([]decl.Member, len(d.Members))
	copy(out.Members, d.Members)

	dir := &out.Directives
	src := mx.Directives
	if src.HasSubtypes {
		dir.Subtypes, dir.HasSubtypes = src.Subtypes, true
	}
	if src.HasSeeAlso {
		dir.SeeAlso, dir.HasSeeAlso = src.SeeAlso, true
	}
	if src.Adapter != nil {
		dir.Adapter = src.Adapter
	}
	dir.Ignored = dir.Ignored || src.Ignored
	dir.EnumAsObject = dir.EnumAsObject || src.EnumAsObject

	for i := range out.Members {
		m := &out.Members[i]
		mm, ok := mx.Member(m.Name)
		if !ok {
			continue
		}
		if mm.Adapter != nil {
			m.Adapter = mm.Adapter
		}
		if mm.Hint != nil {
			m.Hint = mm.Hint
		}
		if len(mm.Choices) > 0 {
			m.Choices = mm.Choices
		}
		if len(mm.SeeAlso) > 0 {
			m.SeeAlso = mm.SeeAlso
		}
		m.Ignored = m.Ignored || mm.Ignored
		m.Value = m.Value || mm.Value
	}
	return &out
}
