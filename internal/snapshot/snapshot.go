// Package snapshot serializes a frozen registry for downstream consumers.
package snapshot

import (
	"modelgraph/internal/decl"
	"modelgraph/internal/model"
	"modelgraph/internal/registry"
)

// SchemaVersion is bumped whenever the Snapshot layout changes.
const SchemaVersion uint16 = 1

// Snapshot is the serialized form of a frozen registry.
type Snapshot struct {
	Schema uint16 `json:"schema" msgpack:"schema"`
	Tool   string `json:"tool,omitempty" msgpack:"tool,omitempty"`
	Types  []Type `json:"types" msgpack:"types"`
}

// Type is one registered definition.
type Type struct {
	ID          string   `json:"id" msgpack:"id"`
	Slug        string   `json:"slug" msgpack:"slug"`
	Kind        string   `json:"kind" msgpack:"kind"`
	Abstract    bool     `json:"abstract,omitzero" msgpack:"abstract,omitempty"`
	Super       string   `json:"super,omitempty" msgpack:"super,omitempty"`
	Format      string   `json:"format,omitempty" msgpack:"format,omitempty"`
	Pos         string   `json:"pos,omitempty" msgpack:"pos,omitempty"`
	Members     []Member `json:"members,omitempty" msgpack:"members,omitempty"`
	Value       *Member  `json:"value,omitempty" msgpack:"value,omitempty"`
	Constants   []string `json:"constants,omitempty" msgpack:"constants,omitempty"`
	Provenance  []string `json:"provenance,omitempty" msgpack:"provenance,omitempty"`
	Unsupported []Note   `json:"unsupported,omitempty" msgpack:"unsupported,omitempty"`
}

// Member is one accessor; Type is the usage reachability followed.
type Member struct {
	Name     string   `json:"name" msgpack:"name"`
	Type     string   `json:"type" msgpack:"type"`
	Declared string   `json:"declared,omitempty" msgpack:"declared,omitempty"`
	Adapter  string   `json:"adapter,omitempty" msgpack:"adapter,omitempty"`
	Choices  []Choice `json:"choices,omitempty" msgpack:"choices,omitempty"`
}

type Choice struct {
	Name      string `json:"name" msgpack:"name"`
	Namespace string `json:"ns,omitempty" msgpack:"ns,omitempty"`
	Type      string `json:"type" msgpack:"type"`
}

type Note struct {
	Member string `json:"member,omitempty" msgpack:"member,omitempty"`
	Reason string `json:"reason" msgpack:"reason"`
}

// Build converts f, in registration order. Slugs are assigned in the same
// order so the first registrant keeps the shortest slug.
func Build(f *registry.Frozen, tool string) *Snapshot {
	s := &Snapshot{Schema: SchemaVersion, Tool: tool}
	slugs := f.Slugs()
	for _, def := range f.Definitions() {
		s.Types = append(s.Types, convert(def, slugs[def.ID]))
	}
	return s
}

func convert(def *model.TypeDefinition, slug string) Type {
	t := Type{
		ID:        string(def.ID),
		Slug:      slug,
		Kind:      def.Kind.String(),
		Abstract:  def.Abstract,
		Super:     string(def.Super),
		Format:    def.Format,
		Pos:       def.Pos,
		Constants: def.Constants,
	}
	for i := range def.Members {
		t.Members = append(t.Members, member(&def.Members[i]))
	}
	if def.Value != nil {
		v := member(def.Value)
		t.Value = &v
	}
	for _, r := range def.Provenance {
		t.Provenance = append(t.Provenance, r.String())
	}
	for _, n := range def.Unsupported {
		t.Unsupported = append(t.Unsupported, Note{Member: n.Member, Reason: n.Reason})
	}
	return t
}

func member(m *model.Member) Member {
	out := Member{Name: m.Name, Type: m.Modeled().String()}
	if declared := m.Type.String(); declared != out.Type {
		out.Declared = declared
	}
	if m.Adapter != nil {
		out.Adapter = string(m.Adapter.Source)
	}
	for i := range m.Choices {
		c := &m.Choices[i]
		out.Choices = append(out.Choices, Choice{Name: c.Name, Namespace: c.Namespace, Type: c.Modeled().String()})
	}
	return out
}

// Lookup returns the type with the given identity.
func (s *Snapshot) Lookup(id decl.Identity) (*Type, bool) {
	for i := range s.Types {
		if s.Types[i].ID == string(id) {
			return &s.Types[i], true
		}
	}
	return nil, false
}

// Counts returns how many types of each kind the snapshot holds.
func (s *Snapshot) Counts() map[string]int {
	out := make(map[string]int)
	for _, t := range s.Types {
		out[t.Kind]++
	}
	return out
}
