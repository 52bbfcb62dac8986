package registry

import (
	"sync"

	"modelgraph/internal/decl"
	"modelgraph/internal/model"
	"modelgraph/internal/slug"
)

// Frozen is the read-only registry handed to downstream consumers.
// Consumers must not mutate the definitions it returns.
type Frozen struct {
	defs  map[decl.Identity]*model.TypeDefinition
	order []decl.Identity
	index map[decl.Identity]uint32
	slugs *slug.Assigner
	once  sync.Once
}

func newFrozen(defs map[decl.Identity]*model.TypeDefinition, order []decl.Identity, index map[decl.Identity]uint32) *Frozen {
	return &Frozen{
		defs:  defs,
		order: order,
		index: index,
		slugs: slug.New(),
	}
}

// Lookup returns the definition registered for id.
func (f *Frozen) Lookup(id decl.Identity) (*model.TypeDefinition, bool) {
	def, ok := f.defs[id]
	return def, ok
}

// Position returns id's registration index.
func (f *Frozen) Position(id decl.Identity) (uint32, bool) {
	pos, ok := f.index[id]
	return pos, ok
}

// Definitions returns every definition in registration order.
func (f *Frozen) Definitions() []*model.TypeDefinition {
	out := make([]*model.TypeDefinition, len(f.order))
	for i, id := range f.order {
		out[i] = f.defs[id]
	}
	return out
}

// Identities returns the registered identities in registration order.
func (f *Frozen) Identities() []decl.Identity {
	return append([]decl.Identity(nil), f.order...)
}

func (f *Frozen) Len() int { return len(f.order) }

// SlugFor returns id's slug, or "" when id is not registered. Slugs are
// claimed in registration order whichever identity is asked for first.
func (f *Frozen) SlugFor(id decl.Identity) string {
	if _, ok := f.defs[id]; !ok {
		return ""
	}
	f.assign()
	return f.slugs.SlugFor(id)
}

// Slugs returns the slug of every registered identity.
func (f *Frozen) Slugs() map[decl.Identity]string {
	f.assign()
	out := make(map[decl.Identity]string, len(f.order))
	for _, id := range f.order {
		out[id] = f.slugs.SlugFor(id)
	}
	return out
}

func (f *Frozen) assign() {
	f.once.Do(func() {
		for _, id := range f.order {
			f.slugs.SlugFor(id)
		}
	})
}
