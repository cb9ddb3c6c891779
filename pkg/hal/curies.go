package hal

import (
	"slices"
	"strings"

	"github.com/waypost-dev/waypost/pkg/errors"
)

// Curies is an ordered registry of CURIE links, conceptually one per
// name. It converts relation types between curied and expanded form.
// Curies is a value type: Register and MergeWith return new registries
// and never mutate the receiver, so a registry can be shared freely.
//
// The zero value is an empty, usable registry.
type Curies struct {
	links []Link
}

// EmptyCuries returns a registry with no curies registered.
func EmptyCuries() Curies {
	return Curies{}
}

// CuriesOf builds a registry by registering the given CURIE links in
// order. Registration rules are those of [Curies.Register].
func CuriesOf(curies ...Link) (Curies, error) {
	c := Curies{}
	for _, curi := range curies {
		var err error
		c, err = c.Register(curi)
		if err != nil {
			return Curies{}, err
		}
	}
	return c, nil
}

// Register adds a CURIE link to the registry and returns the extended
// registry. The link must have relation type "curies", anything else is
// an INVALID_ARGUMENT error. When a curie with the same name is already
// registered, the new link replaces it in place, keeping its original
// position; the last registration for a name wins.
func (c Curies) Register(curi Link) (Curies, error) {
	if curi.Rel != RelCuries {
		return c, errors.New(errors.ErrCodeInvalidArgument, "cannot register link with rel %q as curie", curi.Rel)
	}
	links := slices.Clone(c.links)
	for i, existing := range links {
		if existing.Name == curi.Name {
			links[i] = curi
			return Curies{links: links}, nil
		}
	}
	return Curies{links: append(links, curi)}, nil
}

// MergeWith folds the other registry's curies through Register, in the
// other's order, and returns the merged registry. On name collisions
// the other registry's entries win.
func (c Curies) MergeWith(other Curies) Curies {
	merged := c
	for _, curi := range other.links {
		// Register only fails on a non-curies rel, which the other
		// registry cannot contain.
		merged, _ = merged.Register(curi)
	}
	return merged
}

// Resolve converts rel to its curied form using the first registered
// curie whose template matches, in registration order. Unmatched
// relation types are returned unchanged. Resolve is idempotent: a
// curied rel resolves to itself.
func (c Curies) Resolve(rel string) string {
	if t, ok := MatchingCuriTemplate(c, rel); ok {
		if curied, err := t.CuriedRel(rel); err == nil {
			return curied
		}
	}
	return rel
}

// Expand converts a curied rel ("x:product") back to its full form
// using the curie registered under its name. Relation types that carry
// no name prefix, or whose name is not registered, are returned
// unchanged.
func (c Curies) Expand(rel string) string {
	name, _, ok := strings.Cut(rel, ":")
	if !ok {
		return rel
	}
	for _, curi := range c.links {
		if curi.Name != name {
			continue
		}
		t, err := NewCuriTemplate(curi)
		if err != nil {
			continue
		}
		if expanded, err := t.ExpandedRel(rel); err == nil {
			return expanded
		}
	}
	return rel
}

// Contains reports whether a curie equivalent to the given link is
// registered (equality per [Link.IsEquivalentTo]).
func (c Curies) Contains(curi Link) bool {
	return slices.ContainsFunc(c.links, func(l Link) bool {
		return l.IsEquivalentTo(curi)
	})
}

// Links returns the registered CURIE links in registration order.
// The returned slice is a copy.
func (c Curies) Links() []Link {
	return slices.Clone(c.links)
}

// IsEmpty reports whether no curies are registered.
func (c Curies) IsEmpty() bool {
	return len(c.links) == 0
}
