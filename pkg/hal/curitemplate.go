package hal

import (
	"strings"

	"github.com/waypost-dev/waypost/pkg/errors"
)

// RelPlaceholder is the placeholder a CURIE href must contain exactly
// once. It marks the position of the relation-type suffix.
const RelPlaceholder = "{rel}"

// CuriTemplate matches and converts relation types between their curied
// form ("x:product") and their expanded form
// ("http://example.org/rels/product"). A template is derived from a
// single CURIE link and is immutable.
type CuriTemplate struct {
	relPrefix       string // href up to the {rel} placeholder
	relSuffix       string // href after the {rel} placeholder
	curiedRelPrefix string // "<name>:"
	curi            Link
}

// NewCuriTemplate derives a template from a CURIE link. The link must
// have relation type "curies", a non-empty name, and an href containing
// the {rel} placeholder; anything else is an INVALID_CURIE error.
func NewCuriTemplate(curi Link) (CuriTemplate, error) {
	if curi.Rel != RelCuries {
		return CuriTemplate{}, errors.New(errors.ErrCodeInvalidCurie, "link must have rel %q, got %q", RelCuries, curi.Rel)
	}
	if curi.Name == "" {
		return CuriTemplate{}, errors.New(errors.ErrCodeInvalidCurie, "curie link must have a name")
	}
	prefix, suffix, ok := strings.Cut(curi.Href, RelPlaceholder)
	if !ok {
		return CuriTemplate{}, errors.New(errors.ErrCodeInvalidCurie, "curie href %q must contain the %s placeholder", curi.Href, RelPlaceholder)
	}
	return CuriTemplate{
		relPrefix:       prefix,
		relSuffix:       suffix,
		curiedRelPrefix: curi.Name + ":",
		curi:            curi,
	}, nil
}

// MatchingCuriTemplate returns the first template (in registration
// order) of the registry that matches rel in either form. The second
// return value is false when no registered curie matches.
func MatchingCuriTemplate(curies Curies, rel string) (CuriTemplate, bool) {
	for _, curi := range curies.links {
		t, err := NewCuriTemplate(curi)
		if err != nil {
			continue
		}
		if t.Matches(rel) {
			return t, true
		}
	}
	return CuriTemplate{}, false
}

// Curi returns the CURIE link the template was derived from.
func (t CuriTemplate) Curi() Link {
	return t.curi
}

// MatchesCuried reports whether rel is in this template's curied form,
// i.e. starts with "<name>:".
func (t CuriTemplate) MatchesCuried(rel string) bool {
	return strings.HasPrefix(rel, t.curiedRelPrefix)
}

// MatchesExpanded reports whether rel is in this template's expanded
// form, i.e. fits the href around the {rel} placeholder.
func (t CuriTemplate) MatchesExpanded(rel string) bool {
	return t.relPrefix != "" &&
		len(rel) > len(t.relPrefix)+len(t.relSuffix) &&
		strings.HasPrefix(rel, t.relPrefix) &&
		strings.HasSuffix(rel, t.relSuffix)
}

// Matches reports whether rel is in either the curied or the expanded
// form of this template.
func (t CuriTemplate) Matches(rel string) bool {
	return t.MatchesCuried(rel) || t.MatchesExpanded(rel)
}

// PlaceholderFrom extracts the part of rel that stands in for the {rel}
// placeholder: "x:product" and "http://example.org/rels/product" both
// yield "product". Returns an INVALID_ARGUMENT error if rel matches
// neither form.
func (t CuriTemplate) PlaceholderFrom(rel string) (string, error) {
	switch {
	case t.MatchesCuried(rel):
		return rel[len(t.curiedRelPrefix):], nil
	case t.MatchesExpanded(rel):
		return rel[len(t.relPrefix) : len(rel)-len(t.relSuffix)], nil
	default:
		return "", errors.New(errors.ErrCodeInvalidArgument, "rel %q does not match curie template %q", rel, t.curi.Href)
	}
}

// CuriedRel converts rel to the curied form "<name>:<placeholder>".
// Returns an INVALID_ARGUMENT error if rel matches neither form.
func (t CuriTemplate) CuriedRel(rel string) (string, error) {
	placeholder, err := t.PlaceholderFrom(rel)
	if err != nil {
		return "", err
	}
	return t.curiedRelPrefix + placeholder, nil
}

// ExpandedRel converts rel to the expanded form, substituting the
// placeholder part into the curie's href. Returns an INVALID_ARGUMENT
// error if rel matches neither form.
func (t CuriTemplate) ExpandedRel(rel string) (string, error) {
	placeholder, err := t.PlaceholderFrom(rel)
	if err != nil {
		return "", err
	}
	return t.relPrefix + placeholder + t.relSuffix, nil
}
