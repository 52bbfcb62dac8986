package decl

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Identity is the fully-qualified name of a type declaration.
// Two identities are equal iff they name the same declaration.
type Identity string

// NewIdentity normalizes a qualified name into an Identity.
func NewIdentity(name string) Identity {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return Identity(norm.NFC.String(name))
}

// String returns the qualified name.
func (id Identity) String() string { return string(id) }

// Short returns the last dot-separated segment.
func (id Identity) Short() string {
	s := string(id)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Ref is one entry of a provenance chain: the declaration (and optionally the
// member or directive) through which a type was reached.
type Ref struct {
	ID     Identity
	Member string
	Via    string
}

func (r Ref) String() string {
	var sb strings.Builder
	sb.WriteString(string(r.ID))
	if r.Member != "" {
		sb.WriteByte('.')
		sb.WriteString(r.Member)
	}
	if r.Via != "" {
		sb.WriteString(" (")
		sb.WriteString(r.Via)
		sb.WriteByte(')')
	}
	return sb.String()
}

// FormatChain renders a provenance chain root-first.
func FormatChain(chain []Ref) string {
	if len(chain) == 0 {
		return "<root>"
	}
	parts := make([]string, len(chain))
	for i, r := range chain {
		parts[i] = r.String()
	}
	return strings.Join(parts, " -> ")
}
