package gosrc

import (
	"go/types"
	"strings"

	"modelgraph/internal/decl"
	"modelgraph/internal/directive"
)

func (b *builder) typeDirectives(d *decl.Declaration, tn *types.TypeName) {
	target := directive.Target{ID: d.ID}
	pkg := tn.Pkg()

	if ds := b.reg.All(target, directive.Subtypes); len(ds) > 0 {
		d.Directives.HasSubtypes = true
		d.Directives.Subtypes = b.refs(pkg, ds)
	}
	if ds := b.reg.All(target, directive.SeeAlso); len(ds) > 0 {
		d.Directives.HasSeeAlso = true
		d.Directives.SeeAlso = b.refs(pkg, ds)
	}
	if dir, ok := b.reg.Lookup(target, directive.Adapter); ok && dir.Arg() != "" {
		d.Directives.Adapter = &decl.AdapterBinding{Source: d.ID, Target: b.target(pkg, dir.Arg())}
	}
	if _, ok := b.reg.Lookup(target, directive.Ignore); ok {
		d.Directives.Ignored = true
	}
	if _, ok := b.reg.Lookup(target, directive.Object); ok {
		d.Directives.EnumAsObject = true
	}
}

func (b *builder) memberDirectives(owner decl.Identity, field string, m *decl.Member, pkg *types.Package) {
	target := directive.Target{ID: owner, Member: field}
	for _, dir := range b.reg.For(target) {
		switch dir.Name {
		case directive.Value:
			m.Value = true
		case directive.Ignore:
			m.Ignored = true
		case directive.Hint:
			if dir.Arg() != "" {
				u := b.target(pkg, dir.Arg())
				m.Hint = &u
			}
		case directive.Adapter:
			if dir.Arg() != "" {
				src := m.Type.ID
				m.Adapter = &decl.AdapterBinding{Source: src, Target: b.target(pkg, dir.Arg())}
			}
		case directive.SeeAlso:
			m.SeeAlso = append(m.SeeAlso, b.refs(pkg, []directive.Directive{dir})...)
		case directive.Choice:
			kv := dir.KeyValues()
			c := decl.Choice{Name: kv["name"], Namespace: kv["ns"]}
			if t := kv["type"]; t != "" {
				c.Type = b.target(pkg, t)
			} else {
				c.Type = m.Type
			}
			if c.Name == "" {
				c.Name = m.Name
			}
			m.Choices = append(m.Choices, c)
		}
	}
}

// refs resolves the identities named by directive arguments.
func (b *builder) refs(pkg *types.Package, ds []directive.Directive) []decl.Identity {
	var out []decl.Identity
	for _, d := range ds {
		for _, a := range d.Args {
			if id := b.ref(pkg, a); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

// target parses an adapter or hint argument: a primitive kind name or a
// type reference.
func (b *builder) target(pkg *types.Package, s string) decl.Usage {
	if p, ok := decl.ParsePrimitive(s); ok {
		return decl.Prim(p)
	}
	return decl.Declared(b.ref(pkg, s))
}

// ref qualifies a type reference. A bare name refers to pkg; anything else
// is "<import path>.<Name>". Types found among the loaded packages are
// declared so the registry can resolve them.
func (b *builder) ref(pkg *types.Package, s string) decl.Identity {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	path, name := pkg.Path(), s
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		path, name = s[:i], s[i+1:]
	}
	if p := b.lookupPackage(path); p != nil {
		if tn, ok := p.Scope().Lookup(name).(*types.TypeName); ok {
			b.enqueue(tn)
		}
	}
	return decl.NewIdentity(path + "." + name)
}

func (b *builder) lookupPackage(path string) *types.Package {
	if p, ok := b.byPath[path]; ok && p.Types != nil {
		return p.Types
	}
	return nil
}
