package known

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelgraph/internal/decl"
)

func TestDefaults(t *testing.T) {
	table := New(Options{})

	e, ok := table.Classify("time.Time")
	require.True(t, ok)
	assert.Equal(t, decl.PrimDate, e.Kind)
	assert.Equal(t, DateDateTime, e.Date)

	assert.True(t, table.Has(RootObject))
	assert.True(t, table.Has("github.com/google/uuid.UUID"))
	assert.False(t, table.Has("example.com/app.Widget"))
	assert.Equal(t, decl.Prim(decl.PrimString), mustClassify(t, table, "net/url.URL").Usage())
}

func TestOptions(t *testing.T) {
	table := New(Options{
		Extra:        map[decl.Identity]decl.Primitive{"app.Stamp": decl.PrimDate, "time.Month": decl.PrimString},
		Formats:      map[decl.Identity]string{"app.Stamp": "unix", "app.Other": "hex"},
		DateOverride: DateTimestamp,
		Evict:        []decl.Identity{"time.Duration", "not.Known"},
	})

	stamp := mustClassify(t, table, "app.Stamp")
	assert.Equal(t, DateTimestamp, stamp.Date)
	assert.Equal(t, "unix", stamp.Format)
	assert.Equal(t, DateTimestamp, mustClassify(t, table, "time.Time").Date)
	assert.Equal(t, decl.PrimString, mustClassify(t, table, "time.Month").Kind)

	assert.False(t, table.Has("time.Duration"))
	assert.Equal(t, []decl.Identity{"time.Duration"}, table.Evicted())
	assert.Equal(t, "hex", table.Format("app.Other"))
	assert.False(t, table.Has("app.Other"))
}

func TestNilTable(t *testing.T) {
	var table *Table
	assert.False(t, table.Has("time.Time"))
	assert.Empty(t, table.Format("x"))
	assert.Zero(t, table.Len())
	assert.Nil(t, table.Evicted())
}

func TestParseDateKind(t *testing.T) {
	for in, want := range map[string]DateKind{
		"":          DateNone,
		"timestamp": DateTimestamp,
		"Date-Time": DateDateTime,
		" time ":    DateTime,
		"duration":  DateDuration,
	} {
		got, err := ParseDateKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDateKind("fortnight")
	assert.Error(t, err)
}

func mustClassify(t *testing.T, table *Table, id decl.Identity) Entry {
	t.Helper()
	e, ok := table.Classify(id)
	require.True(t, ok, "%s is not known", id)
	return e
}
