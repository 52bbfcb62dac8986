package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelgraph/internal/adapter"
	"modelgraph/internal/decl"
	"modelgraph/internal/diag"
	"modelgraph/internal/known"
	"modelgraph/internal/model"
)

type fixture struct {
	u    *decl.Universe
	bag  *diag.Bag
	opts Options

	bindings map[decl.Identity]decl.Usage
	mixins   map[decl.Identity]decl.Identity
	collapse bool
}

func newFixture() *fixture {
	bag := diag.NewBag(100)
	return &fixture{
		u:    decl.NewUniverse(),
		bag:  bag,
		opts: Options{Reporter: diag.BagReporter{Bag: bag}},
	}
}

func (f *fixture) class(id decl.Identity, members ...decl.Member) *decl.Declaration {
	return f.u.Declare(&decl.Declaration{ID: id, Kind: decl.KindClass, Pos: string(id) + ".go:1", Members: members})
}

func (f *fixture) registry() *Registry {
	table := known.New(known.Options{})
	ctx := &model.Context{
		Frontend:          f.u,
		Known:             table,
		Adapters:          adapter.NewResolver(f.u, table, f.bindings, f.mixins),
		CollapseHierarchy: f.collapse,
	}
	return New(ctx, f.opts)
}

func (f *fixture) run(t *testing.T, roots ...decl.Identity) *Registry {
	t.Helper()
	f.u.MarkRoot(roots...)
	r := f.registry()
	require.NoError(t, r.AddRoots(context.Background()))
	return r
}

func member(name string, u decl.Usage) decl.Member {
	return decl.Member{Name: name, Type: u}
}

func registered(t *testing.T, r *Registry) []decl.Identity {
	t.Helper()
	frozen, err := r.Freeze()
	require.NoError(t, err)
	return frozen.Identities()
}

func TestRegistry_SingleShape(t *testing.T) {
	f := newFixture()
	f.class("shapes.Shape", member("name", decl.Prim(decl.PrimString)))

	r := f.run(t, "shapes.Shape")

	assert.Equal(t, []decl.Identity{"shapes.Shape"}, registered(t, r))
	frozen, err := r.Freeze()
	require.NoError(t, err)
	def, ok := frozen.Lookup("shapes.Shape")
	require.True(t, ok)
	assert.Equal(t, model.KindObject, def.Kind)
	m, ok := def.Member("name")
	require.True(t, ok)
	assert.Equal(t, decl.UsagePrimitive, m.Modeled().Kind)
	assert.Equal(t, decl.PrimString, m.Modeled().Prim)
	assert.Empty(t, def.Provenance)
}

func TestRegistry_SelfReference(t *testing.T) {
	f := newFixture()
	f.class("list.Node", member("next", decl.Declared("list.Node")))

	r := f.run(t, "list.Node")

	assert.Equal(t, []decl.Identity{"list.Node"}, registered(t, r))
	frozen, _ := r.Freeze()
	def, _ := frozen.Lookup("list.Node")
	m, ok := def.Member("next")
	require.True(t, ok)
	assert.Equal(t, decl.Identity("list.Node"), m.Modeled().ID)
}

func TestRegistry_MutualCycle(t *testing.T) {
	f := newFixture()
	f.class("p.A", member("b", decl.Declared("p.B")))
	f.class("p.B", member("a", decl.Declared("p.A")), member("self", decl.ArrayOf(decl.Declared("p.B"))))

	r := f.run(t, "p.A", "p.B")

	assert.Equal(t, []decl.Identity{"p.A", "p.B"}, registered(t, r))
	frozen, _ := r.Freeze()
	b, _ := frozen.Lookup("p.B")
	assert.Equal(t, []decl.Ref{{ID: "p.A"}, {ID: "p.A", Member: "b"}}, b.Provenance)
}

type countingFrontend struct {
	*decl.Universe
	resolved map[decl.Identity]int
}

func (c *countingFrontend) Resolve(id decl.Identity) (*decl.Declaration, error) {
	c.resolved[id]++
	return c.Universe.Resolve(id)
}

func TestRegistry_AddIsIdempotent(t *testing.T) {
	f := newFixture()
	f.class("p.Root", member("leaf", decl.Declared("p.Leaf")))
	f.class("p.Leaf", member("n", decl.Prim(decl.PrimNumber)))

	fe := &countingFrontend{Universe: f.u, resolved: make(map[decl.Identity]int)}
	table := known.New(known.Options{})
	r := New(&model.Context{
		Frontend: fe,
		Known:    table,
		Adapters: adapter.NewResolver(fe, table, nil, nil),
	}, f.opts)

	require.NoError(t, r.Add("p.Root", nil))
	first, _ := r.defs["p.Root"]
	leafResolves := fe.resolved["p.Leaf"]

	require.NoError(t, r.Add("p.Root", nil))
	require.NoError(t, r.Add("p.Leaf", nil))

	assert.Equal(t, 2, r.Len())
	assert.Same(t, first, r.defs["p.Root"])
	// the second Add of Leaf only resolves it to find it settled
	assert.Equal(t, leafResolves+1, fe.resolved["p.Leaf"])
}

func TestRegistry_AdapterToPrimitive(t *testing.T) {
	f := newFixture()
	x := f.class("p.Money")
	x.Directives.Adapter = &decl.AdapterBinding{Source: "p.Money", Target: decl.Prim(decl.PrimString)}
	f.class("p.Order", member("total", decl.Declared("p.Money")), member("all", decl.ArrayOf(decl.Declared("p.Money"))))

	r := f.run(t, "p.Order", "p.Money")

	assert.Equal(t, []decl.Identity{"p.Order"}, registered(t, r))
	target, ok := r.Substitute("p.Money")
	assert.True(t, ok)
	assert.Empty(t, target)

	frozen, _ := r.Freeze()
	order, _ := frozen.Lookup("p.Order")
	m, _ := order.Member("total")
	require.NotNil(t, m.Adapter)
	assert.Equal(t, decl.PrimString, m.Modeled().Prim)
}

func TestRegistry_AdapterToKnownType(t *testing.T) {
	f := newFixture()
	x := f.class("p.Link")
	x.Directives.Adapter = &decl.AdapterBinding{Source: "p.Link", Target: decl.Declared("net/url.URL")}
	f.class("p.Page", member("href", decl.Declared("p.Link")))

	r := f.run(t, "p.Page")

	assert.Equal(t, []decl.Identity{"p.Page"}, registered(t, r))
	assert.False(t, r.Has("p.Link"))
	assert.False(t, r.Has("net/url.URL"))
}

func TestRegistry_ConfiguredBindingSubstitutesDeclaration(t *testing.T) {
	f := newFixture()
	f.class("p.Legacy", member("old", decl.Prim(decl.PrimString)))
	f.class("p.Modern", member("new", decl.Prim(decl.PrimString)))
	f.class("p.Holder", member("v", decl.Declared("p.Legacy")))
	f.bindings = map[decl.Identity]decl.Usage{"p.Legacy": decl.Declared("p.Modern")}

	r := f.run(t, "p.Holder", "p.Legacy")

	assert.Equal(t, []decl.Identity{"p.Holder", "p.Modern"}, registered(t, r))
	target, ok := r.Substitute("p.Legacy")
	assert.True(t, ok)
	assert.Equal(t, decl.Identity("p.Modern"), target)
}

func TestRegistry_KnownTypesNeverRegistered(t *testing.T) {
	f := newFixture()
	f.class("p.Event",
		member("at", decl.Declared("time.Time")),
		member("again", decl.Declared("time.Time")),
		member("history", decl.ArrayOf(decl.Declared("time.Time"))),
		member("any", decl.Declared(known.RootObject)),
	)

	r := f.run(t, "p.Event")

	assert.Equal(t, []decl.Identity{"p.Event"}, registered(t, r))
	require.NoError(t, r.Add("time.Time", nil))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_EmptyExplicitSubtypesSuppressScan(t *testing.T) {
	build := func(explicit bool) []decl.Identity {
		f := newFixture()
		base := f.u.Declare(&decl.Declaration{ID: "p.Base", Kind: decl.KindInterface, Pos: "base.go:1"})
		if explicit {
			base.Directives.HasSubtypes = true
		}
		impl := f.class("p.Impl")
		impl.Implements = []decl.Identity{"p.Base"}
		f.class("p.Unrelated")

		r := f.run(t, "p.Base")
		return registered(t, r)
	}

	assert.Equal(t, []decl.Identity{"p.Base"}, build(true))
	assert.Equal(t, []decl.Identity{"p.Base", "p.Impl"}, build(false))
}

func TestRegistry_SubtypesAndSeeAlsoUnion(t *testing.T) {
	f := newFixture()
	base := f.u.Declare(&decl.Declaration{ID: "p.Base", Kind: decl.KindInterface})
	base.Directives.Subtypes, base.Directives.HasSubtypes = []decl.Identity{"p.A"}, true
	base.Directives.SeeAlso, base.Directives.HasSeeAlso = []decl.Identity{"p.B"}, true
	f.class("p.A")
	f.class("p.B")
	c := f.class("p.C")
	c.Implements = []decl.Identity{"p.Base"}

	r := f.run(t, "p.Base")

	assert.Equal(t, []decl.Identity{"p.Base", "p.A", "p.B"}, registered(t, r))
	frozen, _ := r.Freeze()
	b, _ := frozen.Lookup("p.B")
	assert.Equal(t, []decl.Ref{{ID: "p.Base"}, {ID: "p.Base", Via: "see-also"}}, b.Provenance)
}

func TestRegistry_EnumsAreNotScanned(t *testing.T) {
	f := newFixture()
	f.u.Declare(&decl.Declaration{ID: "p.Color", Kind: decl.KindEnum, Constants: []string{"Red", "Green"}})
	other := f.class("p.Other")
	other.Implements = []decl.Identity{"p.Color"}

	r := f.run(t, "p.Color")

	assert.Equal(t, []decl.Identity{"p.Color"}, registered(t, r))
	frozen, _ := r.Freeze()
	def, _ := frozen.Lookup("p.Color")
	assert.Equal(t, model.KindEnum, def.Kind)
	assert.Equal(t, []string{"Red", "Green"}, def.Constants)
}

func TestRegistry_UnresolvedSubtypePoisons(t *testing.T) {
	f := newFixture()
	base := f.class("p.Base")
	base.Directives.Subtypes, base.Directives.HasSubtypes = []decl.Identity{"p.Ghost"}, true
	f.class("p.Other")
	f.u.MarkRoot("p.Base")

	r := f.registry()
	err := r.AddRoots(context.Background())
	require.Error(t, err)

	var cfg *decl.ConfigError
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, decl.Identity("p.Base"), cfg.Subject)
	assert.True(t, decl.IsFatal(err))

	assert.Same(t, err, r.Err())
	assert.Equal(t, err, r.Add("p.Other", nil))
	_, ferr := r.Freeze()
	assert.Equal(t, err, ferr)
}

func TestRegistry_UnresolvedRootIsConfigError(t *testing.T) {
	f := newFixture()
	r := f.registry()
	err := r.Add("p.Nowhere", nil)
	var cfg *decl.ConfigError
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, decl.Identity("p.Nowhere"), cfg.Subject)
}

func TestRegistry_IncompleteModelCarriesChain(t *testing.T) {
	f := newFixture()
	f.class("p.Root", member("child", decl.Declared("dep.Broken")))
	f.u.MarkIncomplete("dep.Broken", errors.New("package dep not found"))
	f.u.MarkRoot("p.Root")

	r := f.registry()
	err := r.AddRoots(context.Background())
	require.Error(t, err)

	var inc *decl.IncompleteModelError
	require.ErrorAs(t, err, &inc)
	assert.ErrorIs(t, err, decl.ErrIncompleteModel)
	assert.Equal(t, []decl.Ref{
		{ID: "p.Root"},
		{ID: "p.Root", Member: "child"},
		{ID: "dep.Broken"},
	}, inc.Chain)

	// wrapped exactly once
	var inner *decl.IncompleteModelError
	assert.False(t, errors.As(inc.Err, &inner))
	assert.Contains(t, err.Error(), "p.Root.child")
}

func TestRegistry_IncompleteWildcardBoundCarriesChain(t *testing.T) {
	f := newFixture()
	ext := decl.Declared("p.Broken")
	f.class("p.Root", member("items", decl.ContainerOf(decl.Wildcard(&ext, nil))))
	f.u.MarkIncomplete("p.Broken", nil)
	f.u.MarkRoot("p.Root")

	err := f.registry().AddRoots(context.Background())
	var inc *decl.IncompleteModelError
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, []decl.Ref{
		{ID: "p.Root"},
		{ID: "p.Root", Member: "items"},
		{ID: "p.Broken"},
	}, inc.Chain)
}

func TestRegistry_IncompleteChoiceNamesFailingType(t *testing.T) {
	f := newFixture()
	f.class("p.Root", decl.Member{
		Name:    "payload",
		Type:    decl.Declared(known.RootObject),
		Choices: []decl.Choice{{Name: "broken", Type: decl.Declared("p.Broken")}},
	})
	f.u.MarkIncomplete("p.Broken", nil)
	f.u.MarkRoot("p.Root")

	r := f.registry()
	err := r.AddRoots(context.Background())
	var inc *decl.IncompleteModelError
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, "p.Root -> p.Root.payload -> p.Broken", decl.FormatChain(inc.Chain))
	assert.Equal(t, decl.Identity("p.Broken"), inc.Chain[len(inc.Chain)-1].ID)
	assert.Same(t, err, r.Err())
}

func TestRegistry_ExcludedButReferencedIsKept(t *testing.T) {
	f := newFixture()
	f.class("p.Root", member("h", decl.Declared("p.Hidden")))
	f.class("p.Hidden")
	f.opts.Exclude = func(id decl.Identity) bool { return id == "p.Hidden" }

	r := f.run(t, "p.Root")

	assert.Equal(t, []decl.Identity{"p.Root", "p.Hidden"}, registered(t, r))
	require.Equal(t, 1, f.bag.Count(diag.ModelForcedInclusion))
	var forced diag.Diagnostic
	for _, d := range f.bag.Items() {
		if d.Code == diag.ModelForcedInclusion {
			forced = d
		}
	}
	assert.Equal(t, diag.SevWarning, forced.Severity)
	assert.Equal(t, decl.Identity("p.Hidden"), forced.Subject)
	assert.Contains(t, forced.Message, "p.Root.h of p.Root")
	assert.Len(t, forced.Chain, 2)
}

func TestRegistry_ExcludedRootNamesUnknownLocation(t *testing.T) {
	f := newFixture()
	f.class("p.Root")
	f.opts.Exclude = func(decl.Identity) bool { return true }

	f.run(t, "p.Root")

	items := f.bag.Items()
	require.NotEmpty(t, items)
	assert.Contains(t, items[0].Message, "an unknown location")
}

func TestRegistry_SourceMissingReportedThreeTimes(t *testing.T) {
	f := newFixture()
	var members []decl.Member
	for _, id := range []decl.Identity{"p.A", "p.B", "p.C", "p.D", "p.E"} {
		f.u.Declare(&decl.Declaration{ID: id, Kind: decl.KindClass})
		members = append(members, member(string(id.Short()), decl.Declared(id)))
	}
	f.class("p.Root", members...)

	r := f.run(t, "p.Root")

	assert.Equal(t, 6, r.Len())
	assert.Equal(t, sourceMissingInfoLimit, f.bag.Count(diag.ModelSourceMissing))
}

func TestRegistry_UnsupportedUsageIsNoted(t *testing.T) {
	f := newFixture()
	f.class("p.Root",
		member("fn", decl.Unsupported("func()")),
		member("ext", decl.Declared("ext.Missing")),
		member("ok", decl.Prim(decl.PrimBoolean)),
	)

	r := f.run(t, "p.Root")

	frozen, err := r.Freeze()
	require.NoError(t, err)
	def, _ := frozen.Lookup("p.Root")
	assert.Equal(t, []model.Note{
		{Member: "fn", Reason: "func()"},
		{Member: "ext", Reason: "ext.Missing is not part of the program model"},
	}, def.Unsupported)
	assert.Equal(t, 2, f.bag.Count(diag.ModelUnsupportedUsage))
	assert.False(t, f.bag.HasErrors())
}

func TestRegistry_VisitsEveryUsageShape(t *testing.T) {
	f := newFixture()
	for _, id := range []decl.Identity{"p.Ext", "p.Bound", "p.Sup", "p.Key", "p.Val", "p.Elem", "p.Item", "p.Arg", "p.Gen"} {
		f.class(id)
	}
	ext, bound, sup := decl.Declared("p.Ext"), decl.Declared("p.Bound"), decl.Declared("p.Sup")
	f.class("p.Root",
		member("w", decl.Wildcard(&ext, nil)),
		member("s", decl.Wildcard(nil, &sup)),
		member("t", decl.TypeVar("T", &bound)),
		member("free", decl.TypeVar("U", nil)),
		member("m", decl.MapOf(decl.Declared("p.Key"), decl.Declared("p.Val"))),
		member("a", decl.ArrayOf(decl.Declared("p.Elem"))),
		member("c", decl.StreamOf(decl.Declared("p.Item"))),
		member("g", decl.Declared("p.Gen", decl.Declared("p.Arg"))),
	)

	r := f.run(t, "p.Root")

	assert.ElementsMatch(t, []decl.Identity{
		"p.Root", "p.Ext", "p.Sup", "p.Bound", "p.Key", "p.Val", "p.Elem", "p.Item", "p.Gen", "p.Arg",
	}, registered(t, r))
}

func TestRegistry_WildcardBoundIsAdapted(t *testing.T) {
	f := newFixture()
	id := f.class("p.ID")
	id.Directives.Adapter = &decl.AdapterBinding{Source: "p.ID", Target: decl.Prim(decl.PrimString)}
	ext := decl.Declared("p.ID")
	f.class("p.Root", member("ids", decl.ContainerOf(decl.Wildcard(&ext, nil))))

	r := f.run(t, "p.Root")

	assert.Equal(t, []decl.Identity{"p.Root"}, registered(t, r))
}

func TestRegistry_AdaptedUsageSkipsSource(t *testing.T) {
	f := newFixture()
	f.class("p.Wire")
	f.class("p.Domain")
	f.class("p.Root", member("v", decl.Adapted("p.Wire", decl.Declared("p.Domain"))))

	r := f.run(t, "p.Root")

	assert.Equal(t, []decl.Identity{"p.Root", "p.Domain"}, registered(t, r))
}

func TestRegistry_IgnoredDeclarationsSkipped(t *testing.T) {
	f := newFixture()
	skip := f.class("p.Skip")
	skip.Directives.Ignored = true
	f.class("p.Filtered")
	f.class("p.Root", member("s", decl.Declared("p.Skip")), member("f", decl.Declared("p.Filtered")))
	f.opts.Ignore = func(id decl.Identity) bool { return id == "p.Filtered" }

	r := f.run(t, "p.Root")

	assert.Equal(t, []decl.Identity{"p.Root"}, registered(t, r))
}

func TestRegistry_Superclass(t *testing.T) {
	setup := func(f *fixture) {
		f.class("p.Parent", member("id", decl.Prim(decl.PrimWholeNumber)))
		child := f.class("p.Child")
		parent := decl.Declared("p.Parent")
		child.Super = &parent
	}

	f := newFixture()
	setup(f)
	r := f.run(t, "p.Child")
	assert.Equal(t, []decl.Identity{"p.Child", "p.Parent"}, registered(t, r))
	frozen, _ := r.Freeze()
	child, _ := frozen.Lookup("p.Child")
	assert.Equal(t, decl.Identity("p.Parent"), child.Super)

	f = newFixture()
	setup(f)
	f.collapse = true
	r = f.run(t, "p.Child")
	assert.Equal(t, []decl.Identity{"p.Child"}, registered(t, r))
}

func TestRegistry_MixinDirectivesApply(t *testing.T) {
	f := newFixture()
	f.class("lib.Target", member("v", decl.Prim(decl.PrimString)))
	mx := f.class("p.TargetMixin")
	mx.Directives.Subtypes, mx.Directives.HasSubtypes = []decl.Identity{"p.Special"}, true
	f.class("p.Special")
	f.mixins = map[decl.Identity]decl.Identity{"lib.Target": "p.TargetMixin"}

	r := f.run(t, "lib.Target")

	assert.Equal(t, []decl.Identity{"lib.Target", "p.Special"}, registered(t, r))
}

func TestRegistry_ValueWithSiblingsWarns(t *testing.T) {
	f := newFixture()
	f.u.Declare(&decl.Declaration{ID: "p.Wrapped", Kind: decl.KindClass, Pos: "w.go:1", Members: []decl.Member{
		{Name: "raw", Type: decl.Prim(decl.PrimString), Value: true},
		{Name: "extra", Type: decl.Prim(decl.PrimString)},
	}})

	f.run(t, "p.Wrapped")

	assert.Equal(t, 1, f.bag.Count(diag.ModelValueWithSiblings))
}

func TestRegistry_FreezeStopsAdd(t *testing.T) {
	f := newFixture()
	f.class("p.A")
	f.class("p.B")
	r := f.run(t, "p.A")

	frozen, err := r.Freeze()
	require.NoError(t, err)
	assert.ErrorIs(t, r.Add("p.B", nil), ErrFrozen)

	pos, ok := frozen.Position("p.A")
	assert.True(t, ok)
	assert.Equal(t, uint32(0), pos)
	assert.Equal(t, map[decl.Identity]string{"p.A": "A"}, frozen.Slugs())
}

func TestFrozen_SlugForRegisteredOnly(t *testing.T) {
	f := newFixture()
	f.class("a.Widget", member("other", decl.Declared("b.Widget")))
	f.class("b.Widget")
	r := f.run(t, "a.Widget")
	frozen, err := r.Freeze()
	require.NoError(t, err)

	assert.Empty(t, frozen.SlugFor("c.Widget"))
	// asking for the later registration first does not steal the short slug
	assert.Equal(t, "b_Widget", frozen.SlugFor("b.Widget"))
	assert.Equal(t, "Widget", frozen.SlugFor("a.Widget"))
	assert.Equal(t, map[decl.Identity]string{"a.Widget": "Widget", "b.Widget": "b_Widget"}, frozen.Slugs())
}

func TestRegistry_HintedMemberWalksHintOnly(t *testing.T) {
	f := newFixture()
	hint := decl.Declared("p.Hint")
	f.class("p.Root", decl.Member{
		Name:    "v",
		Type:    decl.Declared("p.Declared"),
		Hint:    &hint,
		SeeAlso: []decl.Identity{"p.Also"},
		Choices: []decl.Choice{{Name: "c", Type: decl.Declared("p.Choice")}},
	})
	f.class("p.Hint")
	f.class("p.Declared")
	f.class("p.Also")
	f.class("p.Choice")

	r := f.run(t, "p.Root")

	assert.Equal(t, []decl.Identity{"p.Root", "p.Hint"}, registered(t, r))
}
