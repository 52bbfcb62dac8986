package directive

import (
	"sort"
	"sync"
)

// Registry collects directives by target. Add is safe to call from the
// scanning goroutines.
type Registry struct {
	mu       sync.Mutex
	byTarget map[Target][]Directive
	byName   map[string][]Target
	count    int
}

// NewRegistry creates an empty directive registry.
func NewRegistry() *Registry {
	return &Registry{
		byTarget: make(map[Target][]Directive),
		byName:   make(map[string][]Target),
	}
}

// Add records d for target.
func (r *Registry) Add(target Target, d Directive) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byTarget[target] = append(r.byTarget[target], d)
	r.byName[d.Name] = append(r.byName[d.Name], target)
	r.count++
}

// For returns the directives attached to target, in source order.
func (r *Registry) For(target Target) []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Directive(nil), r.byTarget[target]...)
}

// Lookup returns the first directive called name on target.
func (r *Registry) Lookup(target Target, name string) (Directive, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.byTarget[target] {
		if d.Name == name {
			return d, true
		}
	}
	return Directive{}, false
}

// All returns every directive called name on target.
func (r *Registry) All(target Target, name string) []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Directive
	for _, d := range r.byTarget[target] {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// Targets returns the targets carrying a directive called name, sorted.
func (r *Registry) Targets(name string) []Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]Target(nil), r.byName[name]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Member < out[j].Member
	})
	// a target may carry the same directive twice
	n := 0
	for i, t := range out {
		if i > 0 && t == out[n-1] {
			continue
		}
		out[n] = t
		n++
	}
	return out[:n]
}

// Len returns the total number of directives.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
