// Package testkit holds checks shared by the tests of several packages.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"modelgraph/internal/model"
	"modelgraph/internal/registry"
)

// CheckModelInvariants runs the structural checks every frozen registry
// must pass:
// 1) Position and Lookup agree with registration order
// 2) every kind has the shape the factory gives it
// 3) every provenance hop names a registered type
// 4) no two identities share a slug
func CheckModelInvariants(f *registry.Frozen) error {
	if f == nil {
		return fmt.Errorf("nil registry")
	}
	var errs []error

	// 1) порядок регистрации
	for i, id := range f.Identities() {
		want, err := safecast.Conv[uint32](i)
		if err != nil {
			return fmt.Errorf("registration index overflow: %w", err)
		}
		if pos, ok := f.Position(id); !ok || pos != want {
			errs = append(errs, fmt.Errorf("%s: position %d, want %d", id, pos, want))
		}
		def, ok := f.Lookup(id)
		if !ok || def == nil || def.ID != id {
			errs = append(errs, fmt.Errorf("%s: lookup does not return its definition", id))
		}
	}

	for _, def := range f.Definitions() {
		// 2) форма по виду
		if err := checkShape(def); err != nil {
			errs = append(errs, err)
		}
		// 3) цепочка происхождения
		for _, ref := range def.Provenance {
			if _, ok := f.Lookup(ref.ID); !ok {
				errs = append(errs, fmt.Errorf("%s: provenance names unregistered %s", def.ID, ref.ID))
			}
		}
	}

	// 4) уникальность slug'ов
	owners := make(map[string]string, f.Len())
	for id, s := range f.Slugs() {
		if prev, ok := owners[s]; ok {
			errs = append(errs, fmt.Errorf("slug %q shared by %s and %s", s, prev, id))
		}
		owners[s] = string(id)
	}
	return errors.Join(errs...)
}

func checkShape(def *model.TypeDefinition) error {
	switch def.Kind {
	case model.KindEnum:
		if len(def.Members) > 0 || def.Value != nil {
			return fmt.Errorf("%s: enum with members", def.ID)
		}
	case model.KindSimple:
		if def.Value == nil || len(def.Members) > 0 {
			return fmt.Errorf("%s: simple type must carry exactly its value", def.ID)
		}
	case model.KindObject:
		if def.Value != nil || len(def.Constants) > 0 {
			return fmt.Errorf("%s: object with value or constants", def.ID)
		}
	}
	return nil
}
