package gosrc

import (
	"go/types"

	"modelgraph/internal/decl"
	"modelgraph/internal/known"
)

// usage maps a checked Go type onto the usage variants the registry walks.
func (b *builder) usage(t types.Type) decl.Usage {
	switch t := t.(type) {
	case *types.Alias:
		return b.usage(types.Unalias(t))
	case *types.Basic:
		return b.basic(t)
	case *types.Pointer:
		return b.usage(t.Elem())
	case *types.Slice:
		if isByte(t.Elem()) {
			return decl.Prim(decl.PrimString)
		}
		return decl.ArrayOf(b.usage(t.Elem()))
	case *types.Array:
		if isByte(t.Elem()) {
			return decl.Prim(decl.PrimString)
		}
		return decl.ArrayOf(b.usage(t.Elem()))
	case *types.Map:
		return decl.MapOf(b.usage(t.Key()), b.usage(t.Elem()))
	case *types.Chan:
		return decl.StreamOf(b.usage(t.Elem()))
	case *types.TypeParam:
		if b.binding[t] {
			// F-bounded: T Comparable[T]
			return decl.TypeVar(t.Obj().Name(), nil)
		}
		return decl.TypeVar(t.Obj().Name(), b.bound(t))
	case *types.Named:
		return b.named(t)
	case *types.Interface:
		if t.Empty() {
			return decl.Declared(known.RootObject)
		}
		return decl.Unsupported("anonymous interface")
	case *types.Struct:
		return decl.Unsupported("anonymous struct")
	case *types.Signature:
		return decl.Unsupported("func")
	}
	return decl.Unsupported(t.String())
}

func (b *builder) named(t *types.Named) decl.Usage {
	origin := t.Origin()
	obj := origin.Obj()
	id := identityOf(obj)
	b.enqueue(obj)

	targs := t.TypeArgs()
	if targs == nil || targs.Len() == 0 {
		return decl.Declared(id)
	}
	args := make([]decl.Usage, targs.Len())
	for i := range args {
		args[i] = b.usage(targs.At(i))
	}
	return decl.Declared(id, args...)
}

func (b *builder) basic(t *types.Basic) decl.Usage {
	info := t.Info()
	switch {
	case t.Kind() == types.Invalid:
		b.invalid = true
		return decl.Unsupported("unresolved type")
	case info&types.IsBoolean != 0:
		return decl.Prim(decl.PrimBoolean)
	case info&types.IsString != 0:
		return decl.Prim(decl.PrimString)
	case info&types.IsInteger != 0:
		return decl.Prim(decl.PrimWholeNumber)
	case info&types.IsFloat != 0:
		return decl.Prim(decl.PrimNumber)
	}
	return decl.Unsupported(t.Name())
}

// bound returns the usage a type parameter is walked through: a named
// method-set constraint, or the single term of a one-term union. A
// parameter mentioned inside its own constraint is left unbounded there.
func (b *builder) bound(tp *types.TypeParam) *decl.Usage {
	b.binding[tp] = true
	defer delete(b.binding, tp)

	c := tp.Constraint()
	iface, ok := c.Underlying().(*types.Interface)
	if !ok || iface.Empty() {
		return nil
	}
	if n, ok := types.Unalias(c).(*types.Named); ok && iface.NumMethods() > 0 {
		u := b.named(n)
		return &u
	}
	if iface.NumEmbeddeds() == 1 {
		if un, ok := iface.EmbeddedType(0).(*types.Union); ok && un.Len() == 1 {
			u := b.usage(un.Term(0).Type())
			return &u
		}
	}
	return nil
}

func isByte(t types.Type) bool {
	bt, ok := types.Unalias(t).(*types.Basic)
	return ok && bt.Kind() == types.Byte
}
