package slug

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"modelgraph/internal/decl"
)

func TestSlugFor_FirstClaimantKeepsShortest(t *testing.T) {
	a := New()
	assert.Equal(t, "Widget", a.SlugFor("a.b.Widget"))
	assert.Equal(t, "d_Widget", a.SlugFor("c.d.Widget"))
	assert.Equal(t, "b_d_Widget", a.SlugFor("b.d.Widget"))

	// stable on repeat, in any order
	assert.Equal(t, "d_Widget", a.SlugFor("c.d.Widget"))
	assert.Equal(t, "Widget", a.SlugFor("a.b.Widget"))
	assert.Equal(t, 3, a.Len())
}

func TestSlugFor_PathIdentities(t *testing.T) {
	a := New()
	assert.Equal(t, "Widget", a.SlugFor("github.com/acme/api.Widget"))
	assert.Equal(t, "v2_Widget", a.SlugFor("github.com/acme/api/v2.Widget"))
}

func TestSlugFor_SanitizedCollision(t *testing.T) {
	a := New()
	assert.Equal(t, "x_y", a.SlugFor("x-y"))
	assert.Equal(t, "x_y_2", a.SlugFor("x+y"))
	assert.Equal(t, "x_y_3", a.SlugFor("x y"))
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"example_com", "pkg", "Type_int_"}, Segments("example_com/pkg.Type[int]"))
	assert.Equal(t, []string{"_"}, Segments(""))
}

func TestSlugFor_Concurrent(t *testing.T) {
	a := New()
	ids := []decl.Identity{"a.Item", "b.Item", "c.Item", "d.Item"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range ids {
				a.SlugFor(id)
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		s := a.SlugFor(id)
		assert.False(t, seen[s], "duplicate slug %s", s)
		seen[s] = true
	}
}
