// Package slug derives short, collision-free identifiers from qualified
// type identities.
package slug

import (
	"strconv"
	"strings"
	"sync"

	"modelgraph/internal/decl"
)

// Assigner hands out slugs. The first identity to claim a candidate keeps it;
// an identity always gets back the slug it was first given.
type Assigner struct {
	mu     sync.Mutex
	owners map[string]decl.Identity
	memo   map[decl.Identity]string
}

// New returns an empty assigner.
func New() *Assigner {
	return &Assigner{
		owners: make(map[string]decl.Identity),
		memo:   make(map[decl.Identity]string),
	}
}

// SlugFor returns the shortest unclaimed suffix of id's segments joined
// right-to-left with "_", e.g. "d_Widget" for c.d.Widget once a.b.Widget
// holds "Widget".
func (a *Assigner) SlugFor(id decl.Identity) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.memo[id]; ok {
		return s
	}
	segs := Segments(id)
	var cand string
	for n := 1; n <= len(segs); n++ {
		cand = strings.Join(segs[len(segs)-n:], "_")
		owner, taken := a.owners[cand]
		if !taken {
			return a.claim(cand, id)
		}
		if owner == id {
			a.memo[id] = cand
			return cand
		}
	}
	// the full join can still collide once segments are sanitized
	for i := 2; ; i++ {
		next := cand + "_" + strconv.Itoa(i)
		if _, taken := a.owners[next]; !taken {
			return a.claim(next, id)
		}
	}
}

// Len returns the number of assigned slugs.
func (a *Assigner) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.memo)
}

func (a *Assigner) claim(s string, id decl.Identity) string {
	a.owners[s] = id
	a.memo[id] = s
	return s
}

// Segments splits a qualified identity on "." and "/" and replaces every
// character outside [A-Za-z0-9_] with "_". Empty segments are dropped.
func Segments(id decl.Identity) []string {
	fields := strings.FieldsFunc(string(id), func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, sanitize(f))
	}
	if len(out) == 0 {
		out = append(out, "_")
	}
	return out
}

func sanitize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
