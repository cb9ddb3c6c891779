package hal

import (
	"slices"

	"github.com/waypost-dev/waypost/pkg/errors"
)

// linkEntry is one relation type in a Links collection together with
// its rendering mode. The single flag is an explicit tag: a relation
// type holding one link as an array stays an array.
type linkEntry struct {
	rel    string
	single bool
	links  []Link
}

// Links maps relation types to their links. Every relation type is
// either single-valued or array-valued, never both; the distinction is
// kept as an explicit tag so it survives encoding round trips.
//
// Relation-type keys are stored in curie-resolved form. Lookups resolve
// the queried rel against the same registry, so curied and expanded
// forms are interchangeable:
//
//	links.LinksBy("x:product")
//	links.LinksBy("http://example.org/rels/product") // same result
//
// Links is immutable; it is built with [LinkingTo] or decoded from a
// document. The zero value is an empty, usable collection.
type Links struct {
	entries []linkEntry
	curies  Curies
}

// Rels returns the relation types in insertion order.
func (l Links) Rels() []string {
	rels := make([]string, len(l.entries))
	for i, e := range l.entries {
		rels[i] = e.rel
	}
	return rels
}

// IsEmpty reports whether the collection contains no links at all.
func (l Links) IsEmpty() bool {
	return len(l.entries) == 0
}

// Curies returns the registry built from the collection's CURIE links,
// including curies inherited from an embedding parent.
func (l Links) Curies() Curies {
	return l.curies
}

// HasLink reports whether at least one link exists for the relation
// type, queried in either curied or expanded form.
func (l Links) HasLink(rel string) bool {
	_, ok := l.entryFor(rel)
	return ok
}

// LinksBy returns all links for the relation type, queried in either
// curied or expanded form. The result is a copy; it is empty when the
// relation type is absent.
func (l Links) LinksBy(rel string) []Link {
	e, ok := l.entryFor(rel)
	if !ok {
		return nil
	}
	return slices.Clone(e.links)
}

// LinksWhere returns the links for the relation type that satisfy the
// predicate, preserving order.
func (l Links) LinksWhere(rel string, predicate LinkPredicate) []Link {
	e, ok := l.entryFor(rel)
	if !ok {
		return nil
	}
	var matching []Link
	for _, link := range e.links {
		if predicate(link) {
			matching = append(matching, link)
		}
	}
	return matching
}

// LinkBy returns the first link for the relation type, or false when
// the relation type is absent.
func (l Links) LinkBy(rel string) (Link, bool) {
	e, ok := l.entryFor(rel)
	if !ok || len(e.links) == 0 {
		return Link{}, false
	}
	return e.links[0], true
}

// LinkWhere returns the first link for the relation type satisfying
// the predicate, or false when none does.
func (l Links) LinkWhere(rel string, predicate LinkPredicate) (Link, bool) {
	for _, link := range l.LinksWhere(rel, predicate) {
		return link, true
	}
	return Link{}, false
}

// With merges another collection into this one and returns the result,
// preserving each relation type's single-vs-array tag. Merge conflicts
// (a single-valued relation type present on both sides) fail the same
// way they do during building.
func (l Links) With(other Links) (Links, error) {
	return LinkingTo().With(l).With(other).Build()
}

func (l Links) entryFor(rel string) (linkEntry, bool) {
	resolved := l.curies.Resolve(rel)
	for _, e := range l.entries {
		if e.rel == resolved {
			return e, true
		}
	}
	return linkEntry{}, false
}

// resolveKeys re-keys every entry against the given registry and
// rewrites the contained links' Rel fields to match. Entries that
// resolve to the same key are combined; combining fails on a
// single-valued collision.
func (l Links) resolveKeys(curies Curies) (Links, error) {
	resolved := Links{curies: curies}
	for _, e := range l.entries {
		rel := curies.Resolve(e.rel)
		links := make([]Link, len(e.links))
		for i, link := range e.links {
			link.Rel = rel
			links[i] = link
		}
		if err := resolved.addEntry(linkEntry{rel: rel, single: e.single, links: links}); err != nil {
			return Links{}, err
		}
	}
	return resolved, nil
}

// rekeyMerged re-keys entries against the registry like resolveKeys,
// but combines colliding entries instead of failing: links are unioned
// by equivalence, and the single tag survives only when both sides were
// single and one link remains. Curie propagation into embedded children
// uses this, where a collision must not invalidate an already-decoded
// document.
func (l Links) rekeyMerged(curies Curies) Links {
	merged := Links{curies: curies}
	for _, e := range l.entries {
		rel := curies.Resolve(e.rel)
		links := make([]Link, len(e.links))
		for i, link := range e.links {
			link.Rel = rel
			links[i] = link
		}
		merged.mergeEntry(linkEntry{rel: rel, single: e.single, links: links})
	}
	return merged
}

func (l *Links) mergeEntry(e linkEntry) {
	for i, existing := range l.entries {
		if existing.rel != e.rel {
			continue
		}
		union := slices.Clone(existing.links)
		for _, link := range e.links {
			if !slices.ContainsFunc(union, link.IsEquivalentTo) {
				union = append(union, link)
			}
		}
		l.entries[i] = linkEntry{
			rel:    e.rel,
			single: existing.single && e.single && len(union) == 1,
			links:  union,
		}
		return
	}
	l.entries = append(l.entries, e)
}

// addEntry merges an already-resolved entry into the collection,
// mutating the receiver. Only construction paths use it.
func (l *Links) addEntry(e linkEntry) error {
	for i, existing := range l.entries {
		if existing.rel != e.rel {
			continue
		}
		if existing.single || e.single {
			return errors.New(errors.ErrCodeIllegalState, "relation type %q already exists", e.rel)
		}
		merged := slices.Clone(existing.links)
		for _, link := range e.links {
			if !slices.ContainsFunc(merged, link.IsEquivalentTo) {
				merged = append(merged, link)
			}
		}
		l.entries[i] = linkEntry{rel: e.rel, single: false, links: merged}
		return nil
	}
	l.entries = append(l.entries, e)
	return nil
}

// stripCuries removes CURIE links equivalent to ones in the given
// registry from the serialized "curies" entry. The resolution registry
// itself is left untouched.
func (l Links) stripCuries(parent Curies) Links {
	stripped := Links{curies: l.curies}
	for _, e := range l.entries {
		if e.rel != RelCuries {
			stripped.entries = append(stripped.entries, e)
			continue
		}
		var kept []Link
		for _, link := range e.links {
			if !parent.Contains(link) {
				kept = append(kept, link)
			}
		}
		if len(kept) > 0 {
			stripped.entries = append(stripped.entries, linkEntry{rel: e.rel, single: e.single, links: kept})
		}
	}
	return stripped
}

// withCuries returns the collection with its resolution registry
// replaced. Keys are not re-resolved; use resolveKeys for that.
func (l Links) withCuries(curies Curies) Links {
	l.curies = curies
	return l
}

// LinksBuilder accumulates links for a [Links] collection. Create one
// with [LinkingTo]; every method returns the builder for chaining.
// Errors are deferred: the first one wins and is returned by Build,
// and later calls leave the builder unchanged.
type LinksBuilder struct {
	entries []linkEntry
	curies  Curies
	err     error
}

// LinkingTo starts a new builder:
//
//	links, err := hal.LinkingTo().
//	    Self("http://example.org/books/42").
//	    Curi("x", "http://example.org/rels/{rel}").
//	    Array(hal.Item("/books/42/chapters/1")).
//	    Build()
func LinkingTo() *LinksBuilder {
	return &LinksBuilder{}
}

// Self adds a single-valued "self" link.
func (b *LinksBuilder) Self(href string) *LinksBuilder {
	return b.Single(Self(href))
}

// Curi registers a CURIE definition. The href must contain the {rel}
// placeholder.
func (b *LinksBuilder) Curi(name, relTemplate string) *LinksBuilder {
	return b.Array(Curi(name, relTemplate))
}

// Single adds links whose relation types render as a single object.
// Adding a relation type that is already present fails with
// ILLEGAL_STATE. Links with rel "curies" are always collected into the
// curies array instead.
func (b *LinksBuilder) Single(link Link, more ...Link) *LinksBuilder {
	for _, l := range append([]Link{link}, more...) {
		if b.err != nil {
			return b
		}
		if err := validateLink(l); err != nil {
			b.err = err
			return b
		}
		if l.Rel == RelCuries {
			b.addCuri(l)
			continue
		}
		if _, ok := b.entryFor(l.Rel); ok {
			b.err = errors.New(errors.ErrCodeIllegalState, "relation type %q already exists", l.Rel)
			return b
		}
		b.entries = append(b.entries, linkEntry{rel: l.Rel, single: true, links: []Link{l}})
	}
	return b
}

// Array adds links whose relation types render as an array, even with
// a single element. Links equivalent to an already-present one are
// skipped. Adding to a relation type that exists as single fails with
// ILLEGAL_STATE.
func (b *LinksBuilder) Array(links ...Link) *LinksBuilder {
	for _, l := range links {
		if b.err != nil {
			return b
		}
		if err := validateLink(l); err != nil {
			b.err = err
			return b
		}
		if l.Rel == RelCuries {
			b.addCuri(l)
			continue
		}
		e, ok := b.entryFor(l.Rel)
		if !ok {
			b.entries = append(b.entries, linkEntry{rel: l.Rel, single: false, links: []Link{l}})
			continue
		}
		if e.single {
			b.err = errors.New(errors.ErrCodeIllegalState, "relation type %q already exists as single link", l.Rel)
			return b
		}
		if !slices.ContainsFunc(e.links, l.IsEquivalentTo) {
			e.links = append(e.links, l)
			b.setEntry(*e)
		}
	}
	return b
}

// Replace substitutes the links of one array-valued relation type,
// creating the entry if it does not exist. Every supplied link must
// carry exactly the given rel, anything else is INVALID_ARGUMENT.
func (b *LinksBuilder) Replace(rel string, links []Link) *LinksBuilder {
	if b.err != nil {
		return b
	}
	if rel == "" {
		b.err = errors.New(errors.ErrCodeInvalidArgument, "relation type must not be empty")
		return b
	}
	deduped := make([]Link, 0, len(links))
	for _, l := range links {
		if err := validateLink(l); err != nil {
			b.err = err
			return b
		}
		if l.Rel != rel {
			b.err = errors.New(errors.ErrCodeInvalidArgument, "cannot replace links of %q with link for %q", rel, l.Rel)
			return b
		}
		if !slices.ContainsFunc(deduped, l.IsEquivalentTo) {
			deduped = append(deduped, l)
		}
	}
	if rel == RelCuries {
		curies, err := CuriesOf(deduped...)
		if err != nil {
			b.err = err
			return b
		}
		b.curies = curies
	}
	entry := linkEntry{rel: rel, single: false, links: deduped}
	if e, ok := b.entryFor(rel); ok {
		e.single = false
		e.links = entry.links
		b.setEntry(*e)
	} else {
		b.entries = append(b.entries, entry)
	}
	return b
}

// With merges another collection into the builder, replaying its
// entries in order and preserving each relation type's single-vs-array
// tag. The other collection's curie registry is merged as well, so
// curies inherited through embedding keep working.
func (b *LinksBuilder) With(other Links) *LinksBuilder {
	if b.err != nil {
		return b
	}
	b.curies = b.curies.MergeWith(other.curies)
	for _, e := range other.entries {
		if e.single {
			b.Single(e.links[0], e.links[1:]...)
		} else {
			b.Array(e.links...)
		}
	}
	return b
}

// Build finalizes the collection. All relation-type keys are resolved
// against the accumulated curie registry, so entries added under curied
// and expanded spellings of the same relation type are combined; a
// single-valued collision surfaces here as ILLEGAL_STATE.
func (b *LinksBuilder) Build() (Links, error) {
	if b.err != nil {
		return Links{}, b.err
	}
	raw := Links{entries: b.entries, curies: b.curies}
	return raw.resolveKeys(b.curies)
}

// addCuri routes a CURIE link into both the registry and the "curies"
// array entry.
func (b *LinksBuilder) addCuri(curi Link) {
	curies, err := b.curies.Register(curi)
	if err != nil {
		b.err = err
		return
	}
	b.curies = curies
	e, ok := b.entryFor(RelCuries)
	if !ok {
		b.entries = append(b.entries, linkEntry{rel: RelCuries, single: false, links: []Link{curi}})
		return
	}
	if !slices.ContainsFunc(e.links, curi.IsEquivalentTo) {
		e.links = append(e.links, curi)
		b.setEntry(*e)
	}
}

func (b *LinksBuilder) entryFor(rel string) (*linkEntry, bool) {
	for i := range b.entries {
		if b.entries[i].rel == rel {
			e := b.entries[i]
			return &e, true
		}
	}
	return nil, false
}

func (b *LinksBuilder) setEntry(e linkEntry) {
	for i := range b.entries {
		if b.entries[i].rel == e.rel {
			b.entries[i] = e
			return
		}
	}
}

// validateLink enforces the non-empty rel and href invariant at the
// point where a link enters a collection.
func validateLink(l Link) error {
	if l.Rel == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "link must have a rel: %q", l.Href)
	}
	if l.Href == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "link %q must have an href", l.Rel)
	}
	return nil
}
