package registry

import (
	"slices"

	"modelgraph/internal/decl"
	"modelgraph/internal/model"
)

// refContext is the per-Add traversal state. The provenance stack records who
// referenced what; the recursion stack holds the declarations currently being
// descended into. Both are only changed through the guards below so every
// exit path pops what it pushed.
type refContext struct {
	provenance []decl.Ref
	recursion  []decl.Identity
	owners     []*model.TypeDefinition
}

func newRefContext(chain []decl.Ref) *refContext {
	return &refContext{provenance: slices.Clone(chain)}
}

// refer pushes one provenance entry and returns its release func.
func (c *refContext) refer(ref decl.Ref) func() {
	c.provenance = append(c.provenance, ref)
	n := len(c.provenance)
	return func() {
		c.provenance = c.provenance[:n-1]
	}
}

// descend pushes id onto the recursion stack.
func (c *refContext) descend(id decl.Identity) func() {
	c.recursion = append(c.recursion, id)
	n := len(c.recursion)
	return func() {
		c.recursion = c.recursion[:n-1]
	}
}

// own makes def the definition unsupported usages are noted on.
func (c *refContext) own(def *model.TypeDefinition) func() {
	c.owners = append(c.owners, def)
	n := len(c.owners)
	return func() {
		c.owners = c.owners[:n-1]
	}
}

func (c *refContext) visiting(id decl.Identity) bool {
	return slices.Contains(c.recursion, id)
}

func (c *refContext) owner() *model.TypeDefinition {
	if len(c.owners) == 0 {
		return nil
	}
	return c.owners[len(c.owners)-1]
}

// member returns the innermost member name on the provenance stack.
func (c *refContext) member() string {
	for i := len(c.provenance) - 1; i >= 0; i-- {
		if c.provenance[i].Member != "" {
			return c.provenance[i].Member
		}
	}
	return ""
}

func (c *refContext) chain() []decl.Ref {
	return slices.Clone(c.provenance)
}

// chainWith returns the chain extended by one more declaration.
func (c *refContext) chainWith(id decl.Identity) []decl.Ref {
	out := make([]decl.Ref, 0, len(c.provenance)+1)
	out = append(out, c.provenance...)
	return append(out, decl.Ref{ID: id})
}
