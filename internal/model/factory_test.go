package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelgraph/internal/decl"
	"modelgraph/internal/known"
)

func newFactory(u *decl.Universe, collapse bool) *Factory {
	return NewFactory(NewContext(u, known.New(known.Options{
		Formats: map[decl.Identity]string{"p.Email": "email"},
	}), collapse))
}

func TestCreate_Object(t *testing.T) {
	u := decl.NewUniverse()
	parent := decl.Declared("p.Base")
	d := u.Declare(&decl.Declaration{
		ID: "p.User", Kind: decl.KindClass, Pos: "user.go:3",
		Super: &parent,
		Members: []decl.Member{
			{Name: "id", Type: decl.Prim(decl.PrimWholeNumber)},
			{Name: "secret", Type: decl.Prim(decl.PrimString), Ignored: true},
			{Name: "tags", Type: decl.ArrayOf(decl.Prim(decl.PrimString)), SeeAlso: []decl.Identity{"p.Tag"}},
		},
	})

	def, err := newFactory(u, false).Create(d)
	require.NoError(t, err)
	assert.Equal(t, KindObject, def.Kind)
	assert.False(t, def.Abstract)
	assert.Equal(t, "user.go:3", def.Pos)
	assert.Equal(t, decl.Identity("p.Base"), def.Super)
	require.Len(t, def.Members, 2)
	assert.Equal(t, []decl.Identity{"p.Tag"}, def.Members[1].SeeAlso)
	_, ok := def.Member("secret")
	assert.False(t, ok)

	def, err = newFactory(u, true).Create(d)
	require.NoError(t, err)
	assert.Empty(t, def.Super)
	assert.Nil(t, def.SuperUsage)
}

func TestCreate_InterfaceIsAbstract(t *testing.T) {
	u := decl.NewUniverse()
	d := u.Declare(&decl.Declaration{ID: "p.Shape", Kind: decl.KindInterface})
	def, err := newFactory(u, false).Create(d)
	require.NoError(t, err)
	assert.True(t, def.Abstract)
}

func TestCreate_Enum(t *testing.T) {
	u := decl.NewUniverse()
	d := u.Declare(&decl.Declaration{ID: "p.Color", Kind: decl.KindEnum, Constants: []string{"Red", "Blue"}})
	def, err := newFactory(u, false).Create(d)
	require.NoError(t, err)
	assert.Equal(t, KindEnum, def.Kind)
	assert.Equal(t, []string{"Red", "Blue"}, def.Constants)

	d.Directives.EnumAsObject = true
	def, err = newFactory(u, false).Create(d)
	require.NoError(t, err)
	assert.Equal(t, KindObject, def.Kind)
}

func TestCreate_SimpleValue(t *testing.T) {
	u := decl.NewUniverse()
	d := u.Declare(&decl.Declaration{ID: "p.Email", Members: []decl.Member{
		{Name: "value", Type: decl.Prim(decl.PrimString), Value: true},
	}})
	def, err := newFactory(u, false).Create(d)
	require.NoError(t, err)
	assert.Equal(t, KindSimple, def.Kind)
	require.NotNil(t, def.Value)
	assert.Equal(t, "value", def.Value.Name)
	assert.Equal(t, "email", def.Format)
	assert.Empty(t, def.Members)
}

func TestCreate_AdaptedToPrimitive(t *testing.T) {
	u := decl.NewUniverse()
	d := u.Declare(&decl.Declaration{ID: "p.Money", Directives: decl.Directives{
		Adapter: &decl.AdapterBinding{Source: "p.Money", Target: decl.Prim(decl.PrimString)},
	}})
	def, err := newFactory(u, false).Create(d)
	require.NoError(t, err)
	assert.Nil(t, def)
}

func TestCreate_ChoiceAdapters(t *testing.T) {
	u := decl.NewUniverse()
	u.Declare(&decl.Declaration{ID: "p.Raw", Directives: decl.Directives{
		Adapter: &decl.AdapterBinding{Source: "p.Raw", Target: decl.Prim(decl.PrimString)},
	}})
	d := u.Declare(&decl.Declaration{ID: "p.Holder", Members: []decl.Member{{
		Name: "payload",
		Type: decl.Declared(known.RootObject),
		Choices: []decl.Choice{
			{Name: "raw", Type: decl.Declared("p.Raw")},
			{Name: "count", Type: decl.Prim(decl.PrimWholeNumber)},
		},
	}}})

	def, err := newFactory(u, false).Create(d)
	require.NoError(t, err)
	choices := def.Members[0].Choices
	require.Len(t, choices, 2)
	assert.Equal(t, decl.Prim(decl.PrimString), choices[0].Modeled())
	assert.Equal(t, decl.Prim(decl.PrimWholeNumber), choices[1].Modeled())
}

func TestCreate_MemberLookupNamesFailingType(t *testing.T) {
	u := decl.NewUniverse()
	u.MarkIncomplete("p.Broken", nil)
	d := u.Declare(&decl.Declaration{ID: "p.Root", Kind: decl.KindClass, Members: []decl.Member{
		{Name: "ok", Type: decl.Prim(decl.PrimString)},
		{Name: "b", Type: decl.Declared("p.Broken")},
	}})

	_, err := newFactory(u, false).Create(d)
	var me *MemberError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, decl.Identity("p.Root"), me.Owner)
	assert.Equal(t, "b", me.Member)
	assert.Equal(t, decl.Identity("p.Broken"), me.Type)
	assert.ErrorIs(t, err, decl.ErrIncompleteModel)
}

func TestMemberModeled(t *testing.T) {
	hint := decl.Prim(decl.PrimNumber)
	m := Member{
		Type:    decl.Declared("p.X"),
		Adapter: &decl.AdapterBinding{Source: "p.X", Target: decl.Prim(decl.PrimString)},
	}
	assert.Equal(t, decl.PrimString, m.Modeled().Prim)
	m.Hint = &hint
	assert.Equal(t, decl.PrimNumber, m.Modeled().Prim)
}

func TestNoteDeduplicates(t *testing.T) {
	def := &TypeDefinition{ID: "p.X"}
	def.Note("a", "func()")
	def.Note("a", "func()")
	def.Note("b", "func()")
	assert.Len(t, def.Unsupported, 2)
}
