package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar"

	"modelgraph/internal/decl"
)

// Filter matches identities against doublestar patterns. Identities are
// matched as paths: "github.com/acme/api.Widget" is matched by
// "github.com/acme/**" and "**/api.Widget".
type Filter struct {
	Include []string
	Exclude []string
	Ignore  []string
}

// NewFilter validates every pattern.
func NewFilter(include, exclude, ignore []string) (Filter, error) {
	f := Filter{Include: include, Exclude: exclude, Ignore: ignore}
	for _, group := range [][]string{include, exclude, ignore} {
		for _, p := range group {
			if _, err := doublestar.Match(p, ""); err != nil {
				return Filter{}, fmt.Errorf("[filter]: bad pattern %q: %w", p, err)
			}
		}
	}
	return f, nil
}

// Excluded reports whether id is excluded. An include match wins over an
// exclude match.
func (f Filter) Excluded(id decl.Identity) bool {
	if matchAny(f.Include, id) {
		return false
	}
	return matchAny(f.Exclude, id)
}

// Ignored reports whether id is skipped by traversal and the subtype scan.
func (f Filter) Ignored(id decl.Identity) bool {
	return matchAny(f.Ignore, id)
}

// Empty reports whether no pattern is configured.
func (f Filter) Empty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0 && len(f.Ignore) == 0
}

func matchAny(patterns []string, id decl.Identity) bool {
	name := strings.TrimSpace(string(id))
	for _, p := range patterns {
		// patterns were validated by NewFilter
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
