package decl

import (
	"fmt"
	"slices"
)

// Frontend is what the registry needs from whatever supplies the program
// model. Implementations are read-only from the registry's point of view.
type Frontend interface {
	// Roots lists the declarations handed to the registry first.
	Roots() []Identity
	// Candidates is the universe searched by the implicit subtype scan.
	Candidates() []Identity
	// Resolve returns the declaration for id. A partially resolvable
	// declaration yields an error wrapping ErrIncompleteModel; an unknown
	// identity yields (nil, nil).
	Resolve(id Identity) (*Declaration, error)

	ExplicitSubtypes(d *Declaration) ([]Identity, bool)
	SeeAlso(d *Declaration) ([]Identity, bool)
	Adapter(d *Declaration) (*AdapterBinding, bool)
	Ignorable(d *Declaration) bool
	// AssignableTo reports whether sub "is-a" super in the host type system.
	AssignableTo(sub, super *Declaration) bool
}

// Universe is an in-memory Frontend. Loaders populate it; tests build it by hand.
type Universe struct {
	decls      map[Identity]*Declaration
	order      []Identity
	roots      []Identity
	candidates []Identity
	incomplete map[Identity]error
}

// NewUniverse creates an empty universe.
func NewUniverse() *Universe {
	return &Universe{
		decls:      make(map[Identity]*Declaration),
		incomplete: make(map[Identity]error),
	}
}

// Declare adds d; a later declaration with the same identity replaces it.
func (u *Universe) Declare(d *Declaration) *Declaration {
	if _, ok := u.decls[d.ID]; !ok {
		u.order = append(u.order, d.ID)
	}
	u.decls[d.ID] = d
	return d
}

// MarkRoot appends ids to the root set, skipping duplicates.
func (u *Universe) MarkRoot(ids ...Identity) {
	for _, id := range ids {
		if !slices.Contains(u.roots, id) {
			u.roots = append(u.roots, id)
		}
	}
}

// MarkCandidate restricts the implicit subtype scan to the marked ids.
// A universe with no marked candidates offers every declaration.
func (u *Universe) MarkCandidate(ids ...Identity) {
	for _, id := range ids {
		if !slices.Contains(u.candidates, id) {
			u.candidates = append(u.candidates, id)
		}
	}
}

// MarkIncomplete makes Resolve(id) fail with cause.
func (u *Universe) MarkIncomplete(id Identity, cause error) {
	if cause == nil {
		cause = ErrIncompleteModel
	}
	u.incomplete[id] = cause
}

// Len returns the number of declarations.
func (u *Universe) Len() int { return len(u.decls) }

func (u *Universe) Roots() []Identity { return slices.Clone(u.roots) }

func (u *Universe) Candidates() []Identity {
	if len(u.candidates) > 0 {
		return slices.Clone(u.candidates)
	}
	return slices.Clone(u.order)
}

func (u *Universe) Resolve(id Identity) (*Declaration, error) {
	if cause, ok := u.incomplete[id]; ok {
		return nil, fmt.Errorf("%s: %w: %w", id, ErrIncompleteModel, cause)
	}
	return u.decls[id], nil
}

func (u *Universe) ExplicitSubtypes(d *Declaration) ([]Identity, bool) {
	return d.Directives.Subtypes, d.Directives.HasSubtypes
}

func (u *Universe) SeeAlso(d *Declaration) ([]Identity, bool) {
	return d.Directives.SeeAlso, d.Directives.HasSeeAlso
}

func (u *Universe) Adapter(d *Declaration) (*AdapterBinding, bool) {
	return d.Directives.Adapter, d.Directives.Adapter != nil
}

func (u *Universe) Ignorable(d *Declaration) bool { return d.Directives.Ignored }

func (u *Universe) AssignableTo(sub, super *Declaration) bool {
	if sub == nil || super == nil {
		return false
	}
	return u.isA(sub, super.ID, make(map[Identity]bool))
}

func (u *Universe) isA(d *Declaration, target Identity, seen map[Identity]bool) bool {
	if d.ID == target {
		return true
	}
	if seen[d.ID] {
		return false
	}
	seen[d.ID] = true
	if slices.Contains(d.Implements, target) {
		return true
	}
	var parents []Identity
	if d.Super != nil && d.Super.Kind == UsageDeclared {
		parents = append(parents, d.Super.ID)
	}
	parents = append(parents, d.Implements...)
	for _, p := range parents {
		if pd := u.decls[p]; pd != nil && u.isA(pd, target, seen) {
			return true
		}
	}
	return false
}
