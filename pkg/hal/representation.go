package hal

import (
	"encoding/json"
	"slices"

	"github.com/waypost-dev/waypost/pkg/errors"
)

// attribute is one opaque top-level document member. The value is kept
// as raw JSON and never interpreted.
type attribute struct {
	name  string
	value json.RawMessage
}

// Representation is a HAL+JSON resource: hyperlinks, embedded
// sub-resources and opaque attributes. Representations are immutable
// values; the With* and Add* methods return changed copies, so a
// prototype can be shared across goroutines without locking.
//
// The zero value is an empty, usable representation.
type Representation struct {
	links      Links
	embedded   Embedded
	attributes []attribute
}

// NewRepresentation returns an empty representation.
func NewRepresentation() Representation {
	return Representation{}
}

// Links returns the hyperlinks of the representation.
func (r Representation) Links() Links {
	return r.links
}

// Embedded returns the embedded sub-resources, with curie-aware lookup
// wired to this representation's registry.
func (r Representation) Embedded() Embedded {
	return r.embedded.withCuries(r.links.curies)
}

// Curies returns the curie registry of the representation, including
// curies inherited from an embedding parent.
func (r Representation) Curies() Curies {
	return r.links.curies
}

// WithLinks returns the representation with its links replaced.
func (r Representation) WithLinks(links Links) Representation {
	r.links = links
	return r
}

// AddLinks merges further links into the representation, with the
// semantics of [Links.With]: single-vs-array tags are preserved and a
// single-valued collision is an ILLEGAL_STATE error.
func (r Representation) AddLinks(links Links) (Representation, error) {
	merged, err := r.links.With(links)
	if err != nil {
		return Representation{}, err
	}
	r.links = merged
	return r, nil
}

// WithEmbedded returns the representation with the sub-resources for
// one relation type replaced by the given items, rendered as an array.
// Every item is merged with this representation's curies so its
// relation-type keys stay consistent at every depth.
func (r Representation) WithEmbedded(rel string, items []Representation) (Representation, error) {
	return r.withEmbeddedEntry(rel, items, false)
}

// WithEmbeddedItem returns the representation with the sub-resource for
// one relation type replaced by the given item, rendered as a single
// object.
func (r Representation) WithEmbeddedItem(rel string, item Representation) (Representation, error) {
	return r.withEmbeddedEntry(rel, []Representation{item}, true)
}

func (r Representation) withEmbeddedEntry(rel string, items []Representation, single bool) (Representation, error) {
	if rel == "" {
		return Representation{}, errors.New(errors.ErrCodeInvalidArgument, "embedded relation type must not be empty")
	}
	curies := r.links.curies
	merged := make([]Representation, len(items))
	for i, item := range items {
		merged[i] = item.MergeWithEmbedding(curies)
	}
	r.embedded = r.embedded.withCuries(curies).setEntry(embeddedEntry{
		rel:    curies.Resolve(rel),
		single: single,
		items:  merged,
	})
	return r, nil
}

// WithAttribute returns the representation with one opaque attribute
// set, replacing an existing value in place. The value is marshalled
// to JSON immediately; raw JSON can be passed as json.RawMessage.
func (r Representation) WithAttribute(name string, value any) (Representation, error) {
	if name == "" {
		return Representation{}, errors.New(errors.ErrCodeInvalidArgument, "attribute name must not be empty")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return Representation{}, errors.Wrap(errors.ErrCodeInvalidArgument, err, "cannot marshal attribute %q", name)
	}
	attrs := slices.Clone(r.attributes)
	replaced := false
	for i := range attrs {
		if attrs[i].name == name {
			attrs[i].value = data
			replaced = true
			break
		}
	}
	if !replaced {
		attrs = append(attrs, attribute{name: name, value: data})
	}
	r.attributes = attrs
	return r, nil
}

// Attribute returns the raw JSON value of an opaque attribute, or
// false when the attribute is absent.
func (r Representation) Attribute(name string) (json.RawMessage, bool) {
	for _, a := range r.attributes {
		if a.name == name {
			return a.value, true
		}
	}
	return nil, false
}

// AttributeNames returns the opaque attribute names in document order.
func (r Representation) AttributeNames() []string {
	names := make([]string, len(r.attributes))
	for i, a := range r.attributes {
		names[i] = a.name
	}
	return names
}

// AttributeAs decodes one opaque attribute of a representation into T.
// Absent attributes are a NOT_FOUND error, undecodable ones a DECODE
// error.
func AttributeAs[T any](r Representation, name string) (T, error) {
	var v T
	raw, ok := r.Attribute(name)
	if !ok {
		return v, errors.New(errors.ErrCodeNotFound, "attribute %q not present", name)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, errors.Wrap(errors.ErrCodeDecode, err, "cannot decode attribute %q", name)
	}
	return v, nil
}

// MergeWithEmbedding prepares the representation for embedding into a
// parent carrying the given curies. The own registry is merged with the
// parent's (the parent wins name collisions), every relation-type key
// of links and embedded sub-resources is re-resolved against the merged
// registry at every nesting depth, and own CURIE links equivalent to
// already-present parent ones are dropped from the serialized links.
//
// Collection builders and the document decoder apply this wherever a
// representation becomes an embedded child, so relation-type lookups
// behave identically on every level of a document.
func (r Representation) MergeWithEmbedding(parent Curies) Representation {
	merged := r.links.curies.MergeWith(parent)
	return Representation{
		links:      r.links.rekeyMerged(merged).stripCuries(parent),
		embedded:   r.embedded.mergeWithEmbedding(merged),
		attributes: r.attributes,
	}
}
