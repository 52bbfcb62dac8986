package gosrc

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"modelgraph/internal/decl"
	"modelgraph/internal/directive"
)

// builder turns type-checked packages into declarations. Types of the
// matched packages are declared eagerly; types they reference from other
// packages are declared on first use.
type builder struct {
	u    *decl.Universe
	reg  *directive.Registry
	skip func(decl.Identity) bool

	roots   []*packages.Package
	byPath  map[string]*packages.Package
	pkgErrs map[string]error
	fset    *token.FileSet

	queue    []*types.TypeName
	queued   map[decl.Identity]bool
	names    map[decl.Identity]*types.TypeName
	decls    map[decl.Identity]*decl.Declaration
	declared []decl.Identity

	// binding holds the type parameters whose constraints are being converted.
	binding map[*types.TypeParam]bool

	// invalid is set while converting a declaration that mentions a type
	// the checker could not resolve.
	invalid bool
}

func newBuilder(pkgs []*packages.Package, reg *directive.Registry, skip func(decl.Identity) bool) *builder {
	b := &builder{
		u:       decl.NewUniverse(),
		reg:     reg,
		skip:    skip,
		roots:   pkgs,
		byPath:  make(map[string]*packages.Package),
		pkgErrs: make(map[string]error),
		queued:  make(map[decl.Identity]bool),
		names:   make(map[decl.Identity]*types.TypeName),
		decls:   make(map[decl.Identity]*decl.Declaration),
		binding: make(map[*types.TypeParam]bool),
	}
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		b.byPath[p.PkgPath] = p
		if b.fset == nil && p.Fset != nil {
			b.fset = p.Fset
		}
		if len(p.Errors) == 0 {
			return
		}
		errs := make([]error, len(p.Errors))
		for i, e := range p.Errors {
			errs[i] = e
		}
		b.pkgErrs[p.PkgPath] = errors.Join(errs...)
	})
	return b
}

func (b *builder) build() {
	var rootTypes []decl.Identity
	for _, p := range b.roots {
		if p.Types == nil {
			continue
		}
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			id := identityOf(tn)
			b.enqueue(tn)
			b.u.MarkCandidate(id)
			if tn.Exported() {
				rootTypes = append(rootTypes, id)
			}
		}
	}

	for len(b.queue) > 0 {
		tn := b.queue[0]
		b.queue = b.queue[1:]
		b.declare(tn)
	}
	b.implements()

	marked := b.reg.Targets(directive.Root)
	for _, t := range marked {
		if t.Member == "" {
			b.u.MarkRoot(t.ID)
		}
	}
	if len(marked) == 0 {
		b.u.MarkRoot(rootTypes...)
	}
}

func (b *builder) enqueue(tn *types.TypeName) {
	id := identityOf(tn)
	if b.queued[id] || tn.Pkg() == nil {
		return
	}
	if b.skip != nil && b.skip(id) {
		return
	}
	b.queued[id] = true
	b.names[id] = tn
	b.queue = append(b.queue, tn)
}

func (b *builder) declare(tn *types.TypeName) {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return
	}
	id := identityOf(tn)
	d := &decl.Declaration{ID: id, Pos: b.position(tn.Pos())}
	b.invalid = false

	switch under := named.Underlying().(type) {
	case *types.Struct:
		d.Kind = decl.KindClass
		b.structMembers(d, under)
	case *types.Interface:
		d.Kind = decl.KindInterface
	case *types.Basic:
		if consts := b.constants(tn); len(consts) > 0 {
			d.Kind = decl.KindEnum
			d.Constants = consts
			break
		}
		d.Kind = decl.KindClass
		d.Members = []decl.Member{{Name: "value", Type: b.usage(under), Value: true}}
	default:
		d.Kind = decl.KindClass
		d.Members = []decl.Member{{Name: "value", Type: b.usage(under), Value: true}}
	}
	b.typeDirectives(d, tn)

	b.u.Declare(d)
	b.decls[id] = d
	b.declared = append(b.declared, id)
	if b.invalid {
		cause := b.pkgErrs[tn.Pkg().Path()]
		if cause == nil {
			cause = fmt.Errorf("%s mentions a type that could not be resolved", id)
		}
		b.u.MarkIncomplete(id, cause)
	}
}

func (b *builder) structMembers(d *decl.Declaration, st *types.Struct) {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		name, tagged, skip := jsonName(f.Name(), tag)

		if f.Embedded() && d.Super == nil && !tagged && !skip {
			if u := b.usage(f.Type()); u.Kind == decl.UsageDeclared {
				d.Super = &u
				continue
			}
		}
		if !f.Exported() {
			continue
		}
		m := decl.Member{Name: name, Type: b.usage(f.Type()), Ignored: skip}
		b.memberDirectives(d.ID, f.Name(), &m, f.Pkg())
		d.Members = append(d.Members, m)
	}
}

// jsonName applies the encoding/json naming rules to a field.
func jsonName(goName string, tag reflect.StructTag) (name string, tagged, skip bool) {
	v, ok := tag.Lookup("json")
	if !ok {
		return goName, false, false
	}
	if v == "-" {
		return goName, true, true
	}
	name, _, _ = strings.Cut(v, ",")
	if name == "" {
		return goName, false, false
	}
	return name, true, false
}

// constants lists the constants of tn's own type, in declaration order.
func (b *builder) constants(tn *types.TypeName) []string {
	scope := tn.Pkg().Scope()
	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), tn.Type()) {
			consts = append(consts, c)
		}
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
	out := make([]string, len(consts))
	for i, c := range consts {
		out[i] = c.Name()
	}
	return out
}

// implements records, for every declared type, the declared interfaces its
// value or pointer method set satisfies.
func (b *builder) implements() {
	var ifaces []decl.Identity
	for _, id := range b.declared {
		d := b.decls[id]
		if d.Kind != decl.KindInterface {
			continue
		}
		if named, ok := b.names[id].Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
			continue
		}
		if it, ok := b.names[id].Type().Underlying().(*types.Interface); ok && it.NumMethods() > 0 {
			ifaces = append(ifaces, id)
		}
	}
	for _, id := range b.declared {
		tn := b.names[id]
		if named, ok := tn.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
			continue
		}
		for _, iid := range ifaces {
			if iid == id {
				continue
			}
			it := b.names[iid].Type().Underlying().(*types.Interface)
			if types.Implements(tn.Type(), it) || types.Implements(types.NewPointer(tn.Type()), it) {
				b.decls[id].Implements = append(b.decls[id].Implements, iid)
			}
		}
	}
}

func (b *builder) position(pos token.Pos) string {
	if b.fset == nil || !pos.IsValid() {
		return ""
	}
	p := b.fset.Position(pos)
	if p.Filename == "" {
		return ""
	}
	return p.String()
}

func (b *builder) loadErrors() []error {
	paths := make([]string, 0, len(b.pkgErrs))
	for p := range b.pkgErrs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]error, len(paths))
	for i, p := range paths {
		out[i] = fmt.Errorf("%s: %w", p, b.pkgErrs[p])
	}
	return out
}

// identityOf names a type object: "<import path>.<Name>", or the bare name
// for universe types such as error.
func identityOf(obj types.Object) decl.Identity {
	if obj.Pkg() == nil {
		return decl.NewIdentity(obj.Name())
	}
	return decl.NewIdentity(obj.Pkg().Path() + "." + obj.Name())
}
