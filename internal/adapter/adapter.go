// Package adapter decides which type actually gets modeled when a
// declaration or member is substituted by another one.
package adapter

import (
	"errors"
	"fmt"
	"sort"

	"modelgraph/internal/decl"
	"modelgraph/internal/known"
)

// Resolver combines configured bindings, front-end directives and mixins.
type Resolver struct {
	fe       decl.Frontend
	known    *known.Table
	bindings map[decl.Identity]decl.Usage
	mixins   map[decl.Identity]decl.Identity
}

// NewResolver builds a resolver. bindings and mixins may be nil.
func NewResolver(fe decl.Frontend, table *known.Table, bindings map[decl.Identity]decl.Usage, mixins map[decl.Identity]decl.Identity) *Resolver {
	r := &Resolver{
		fe:       fe,
		known:    table,
		bindings: make(map[decl.Identity]decl.Usage, len(bindings)),
		mixins:   make(map[decl.Identity]decl.Identity, len(mixins)),
	}
	for k, v := range bindings {
		r.bindings[k] = v
	}
	for k, v := range mixins {
		r.mixins[k] = v
	}
	return r
}

// ParseTarget turns a configured adapter target into a usage. Primitive
// kind names become primitive usages, anything else a declared identity.
func ParseTarget(s string) decl.Usage {
	if p, ok := decl.ParsePrimitive(s); ok {
		return decl.Prim(p)
	}
	return decl.Declared(decl.NewIdentity(s))
}

// Validate checks, before any traversal, that every configured adapter
// target and mixin source names a real declaration.
func (r *Resolver) Validate() error {
	var errs []error
	for _, src := range sortedKeys(r.bindings) {
		target := r.bindings[src]
		if target.Kind != decl.UsageDeclared || r.known.Has(target.ID) {
			continue
		}
		d, err := r.fe.Resolve(target.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if d == nil {
			errs = append(errs, &decl.ConfigError{Subject: src, Reason: fmt.Sprintf("adapter target %s cannot be resolved", target.ID)})
		}
	}
	for _, target := range sortedKeys(r.mixins) {
		src := r.mixins[target]
		d, err := r.fe.Resolve(src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if d == nil {
			errs = append(errs, &decl.ConfigError{Subject: target, Reason: fmt.Sprintf("mixin source %s cannot be resolved", src)})
		}
	}
	return errors.Join(errs...)
}

// ForDeclaration reports the adapter applied to d, if any. A configured
// binding wins over the front-end's directive; the mixin's directive is
// consulted when d carries none.
func (r *Resolver) ForDeclaration(d *decl.Declaration) (*decl.AdapterBinding, bool) {
	if d == nil {
		return nil, false
	}
	if target, ok := r.bindings[d.ID]; ok {
		return &decl.AdapterBinding{Source: d.ID, Target: target}, true
	}
	if b, ok := r.fe.Adapter(d); ok && b != nil {
		return withSource(b, d.ID), true
	}
	if mx, err := r.Mixin(d); err == nil && mx != nil {
		if b, ok := r.fe.Adapter(mx); ok && b != nil {
			return withSource(b, d.ID), true
		}
	}
	return nil, false
}

// ForMember reports the adapter applied to m. Member-level adaptation takes
// precedence over the type-level adaptation of the member's declared type.
func (r *Resolver) ForMember(m *decl.Member) (*decl.AdapterBinding, bool, error) {
	if m == nil {
		return nil, false, nil
	}
	if m.Adapter != nil {
		return m.Adapter, true, nil
	}
	u := m.Type
	if u.Kind != decl.UsageDeclared {
		return nil, false, nil
	}
	if target, ok := r.bindings[u.ID]; ok {
		return &decl.AdapterBinding{Source: u.ID, Target: target}, true, nil
	}
	if r.known.Has(u.ID) {
		return nil, false, nil
	}
	d, err := r.fe.Resolve(u.ID)
	if err != nil || d == nil {
		return nil, false, err
	}
	b, ok := r.ForDeclaration(d)
	return b, ok, nil
}

// ForUsage reports the adapter applied to a declared usage.
func (r *Resolver) ForUsage(u decl.Usage) (*decl.AdapterBinding, bool, error) {
	switch u.Kind {
	case decl.UsageAdapted:
		return &decl.AdapterBinding{Source: u.ID, Target: *u.Target}, true, nil
	case decl.UsageDeclared:
		return r.ForMember(&decl.Member{Type: u})
	}
	return nil, false, nil
}

// Narrow follows d's adapter to the declaration that is actually modeled.
// It returns nil when the target is not a modelable declaration (a primitive
// or a known type) and a ConfigError when a declared target is missing.
func (r *Resolver) Narrow(d *decl.Declaration) (*decl.Declaration, error) {
	b, ok := r.ForDeclaration(d)
	if !ok {
		return d, nil
	}
	target := b.Target
	if target.Kind != decl.UsageDeclared {
		return nil, nil
	}
	if target.ID == d.ID {
		return d, nil
	}
	if r.known.Has(target.ID) {
		return nil, nil
	}
	nd, err := r.fe.Resolve(target.ID)
	if err != nil {
		return nil, err
	}
	if nd == nil {
		return nil, &decl.ConfigError{
			Subject: d.ID,
			Reason:  fmt.Sprintf("adapted by %s, which is not part of the program model", target.ID),
		}
	}
	return nd, nil
}

// Mixin returns the mixin declaration configured for d.
func (r *Resolver) Mixin(d *decl.Declaration) (*decl.Declaration, error) {
	if d == nil {
		return nil, nil
	}
	src, ok := r.mixins[d.ID]
	if !ok {
		return nil, nil
	}
	mx, err := r.fe.Resolve(src)
	if err != nil {
		return nil, err
	}
	if mx == nil {
		return nil, &decl.ConfigError{Subject: d.ID, Reason: fmt.Sprintf("mixin source %s cannot be resolved", src)}
	}
	return mx, nil
}

// MixinTargets lists the identities redefined through mixins.
func (r *Resolver) MixinTargets() []decl.Identity {
	return sortedKeys(r.mixins)
}

func withSource(b *decl.AdapterBinding, src decl.Identity) *decl.AdapterBinding {
	if b.Source == src {
		return b
	}
	return &decl.AdapterBinding{Source: src, Target: b.Target}
}

func sortedKeys[V any](m map[decl.Identity]V) []decl.Identity {
	keys := make([]decl.Identity, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
