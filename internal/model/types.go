// Package model defines the registry-owned type definitions and the factory
// that builds them from front-end declarations.
package model

import (
	"fmt"

	"modelgraph/internal/decl"
)

// Kind classifies a TypeDefinition.
type Kind uint8

const (
	KindObject Kind = iota
	KindEnum
	KindSimple
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindEnum:
		return "enum"
	case KindSimple:
		return "simple"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Choice is one alternate shape of a polymorphic member.
type Choice struct {
	Name      string
	Namespace string
	Type      decl.Usage
	Adapter   *decl.AdapterBinding
}

// Modeled returns the usage the choice is modeled as.
func (c *Choice) Modeled() decl.Usage {
	if c.Adapter != nil {
		return c.Adapter.Target
	}
	return c.Type
}

// Member is an accessor of a modeled type.
type Member struct {
	Name    string
	Type    decl.Usage
	Hint    *decl.Usage
	Adapter *decl.AdapterBinding
	Choices []Choice
	SeeAlso []decl.Identity
}

// Modeled returns the usage reachability follows: the type hint, else the
// adapter target, else the declared usage.
func (m *Member) Modeled() decl.Usage {
	if m.Hint != nil {
		return *m.Hint
	}
	if m.Adapter != nil {
		return m.Adapter.Target
	}
	return m.Type
}

// Note records a member whose usage could not be classified.
type Note struct {
	Member string
	Reason string
}

// TypeDefinition is the canonical record of one modeled type.
type TypeDefinition struct {
	ID        decl.Identity
	Kind      Kind
	Abstract  bool
	Members   []Member
	Value     *Member
	Constants []string
	// Super is empty when the hierarchy is collapsed or there is no
	// modelable superclass.
	Super      decl.Identity
	SuperUsage *decl.Usage
	Format     string
	Pos        string

	// Provenance is set once, at registration.
	Provenance  []decl.Ref
	Unsupported []Note
}

// Note appends an unsupported-member note.
func (t *TypeDefinition) Note(member, reason string) {
	for _, n := range t.Unsupported {
		if n.Member == member && n.Reason == reason {
			return
		}
	}
	t.Unsupported = append(t.Unsupported, Note{Member: member, Reason: reason})
}

// Member returns the member with the given name.
func (t *TypeDefinition) Member(name string) (*Member, bool) {
	for i := range t.Members {
		if t.Members[i].Name == name {
			return &t.Members[i], true
		}
	}
	if t.Value != nil && t.Value.Name == name {
		return t.Value, true
	}
	return nil, false
}
