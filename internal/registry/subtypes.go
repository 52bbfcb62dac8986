package registry

import (
	"fmt"

	"modelgraph/internal/decl"
)

const (
	viaSubtypes = "subtypes"
	viaSeeAlso  = "see-also"
	viaScan     = "subtype scan"
)

// discover registers the polymorphic subtypes of d. Explicit subtypes and
// see-also lists are unioned; the universe scan only runs when neither
// directive is present at all, so an empty explicit list means "none".
func (r *Registry) discover(d *decl.Declaration, rc *refContext) error {
	fe := r.ctx.Frontend
	subtypes, hasSubtypes := fe.ExplicitSubtypes(d)
	seeAlso, hasSeeAlso := fe.SeeAlso(d)
	if mx, err := r.ctx.Adapters.Mixin(d); err != nil {
		return err
	} else if mx != nil {
		if ids, ok := fe.ExplicitSubtypes(mx); ok {
			subtypes, hasSubtypes = ids, true
		}
		if ids, ok := fe.SeeAlso(mx); ok {
			seeAlso, hasSeeAlso = ids, true
		}
	}

	if hasSubtypes {
		if err := r.addListed(d.ID, subtypes, viaSubtypes, rc); err != nil {
			return err
		}
	}
	if hasSeeAlso {
		if err := r.addListed(d.ID, seeAlso, viaSeeAlso, rc); err != nil {
			return err
		}
	}
	if hasSubtypes || hasSeeAlso || d.Kind == decl.KindEnum {
		return nil
	}
	return r.scan(d, rc)
}

// addListed registers explicitly named types. A name that does not resolve is
// a configuration error.
func (r *Registry) addListed(owner decl.Identity, ids []decl.Identity, via string, rc *refContext) error {
	defer rc.refer(decl.Ref{ID: owner, Via: via})()
	for _, id := range ids {
		if r.ctx.Known.Has(id) {
			continue
		}
		sd, err := r.resolve(id, rc)
		if err != nil {
			return err
		}
		if sd == nil {
			return &decl.ConfigError{Subject: owner, Reason: fmt.Sprintf("%s names %s, which cannot be resolved", via, id)}
		}
		if err := r.register(sd, rc); err != nil {
			return err
		}
	}
	return nil
}

// scan registers every candidate that is assignable to d.
func (r *Registry) scan(d *decl.Declaration, rc *refContext) error {
	fe := r.ctx.Frontend
	defer rc.refer(decl.Ref{ID: d.ID, Via: viaScan})()
	for _, id := range fe.Candidates() {
		if id == d.ID {
			continue
		}
		cd, err := fe.Resolve(id)
		if err != nil {
			return r.incomplete(id, err, rc)
		}
		if cd == nil || r.ignored(cd) || !fe.AssignableTo(cd, d) {
			continue
		}
		if err := r.register(cd, rc); err != nil {
			return err
		}
	}
	return nil
}

// memberSeeAlso registers the types listed on a member.
func (r *Registry) memberSeeAlso(owner decl.Identity, ids []decl.Identity, rc *refContext) error {
	if len(ids) == 0 {
		return nil
	}
	return r.addListed(owner, ids, viaSeeAlso, rc)
}
