package hal

import (
	"slices"
)

// embeddedEntry is one relation type of an Embedded collection together
// with its rendering mode, mirroring linkEntry.
type embeddedEntry struct {
	rel    string
	single bool
	items  []Representation
}

// Embedded maps relation types to embedded sub-resources. Like [Links],
// every relation type carries an explicit single-vs-array tag, and
// lookups are curie-aware through the registry of the enclosing
// representation's links.
//
// Embedded is immutable and usually constructed through
// [Representation.WithEmbedded] or by decoding a document. The zero
// value is an empty, usable collection.
type Embedded struct {
	entries []embeddedEntry
	curies  Curies
}

// Rels returns the relation types in insertion order.
func (e Embedded) Rels() []string {
	rels := make([]string, len(e.entries))
	for i, entry := range e.entries {
		rels[i] = entry.rel
	}
	return rels
}

// IsEmpty reports whether nothing is embedded.
func (e Embedded) IsEmpty() bool {
	return len(e.entries) == 0
}

// HasRel reports whether sub-resources exist for the relation type,
// queried in either curied or expanded form.
func (e Embedded) HasRel(rel string) bool {
	_, ok := e.entryFor(rel)
	return ok
}

// ItemsBy returns the sub-resources embedded under the relation type,
// queried in either curied or expanded form. The result is a copy; it
// is empty when the relation type is absent.
func (e Embedded) ItemsBy(rel string) []Representation {
	entry, ok := e.entryFor(rel)
	if !ok {
		return nil
	}
	return slices.Clone(entry.items)
}

// ItemBy returns the first sub-resource embedded under the relation
// type, or false when the relation type is absent.
func (e Embedded) ItemBy(rel string) (Representation, bool) {
	entry, ok := e.entryFor(rel)
	if !ok || len(entry.items) == 0 {
		return Representation{}, false
	}
	return entry.items[0], true
}

// With merges another collection into this one and returns the result.
// The other collection's entries replace same-rel entries and keep
// their single-vs-array tag.
func (e Embedded) With(other Embedded) Embedded {
	merged := Embedded{entries: slices.Clone(e.entries), curies: e.curies}
	for _, entry := range other.entries {
		merged = merged.setEntry(entry)
	}
	return merged
}

func (e Embedded) entryFor(rel string) (embeddedEntry, bool) {
	resolved := e.curies.Resolve(rel)
	for _, entry := range e.entries {
		if entry.rel == resolved {
			return entry, true
		}
	}
	return embeddedEntry{}, false
}

// setEntry replaces the entry for the given relation type or appends a
// new one, returning the changed collection.
func (e Embedded) setEntry(entry embeddedEntry) Embedded {
	entries := slices.Clone(e.entries)
	for i := range entries {
		if entries[i].rel == entry.rel {
			entries[i] = entry
			return Embedded{entries: entries, curies: e.curies}
		}
	}
	return Embedded{entries: append(entries, entry), curies: e.curies}
}

// withCuries returns the collection with its lookup registry replaced.
func (e Embedded) withCuries(curies Curies) Embedded {
	e.curies = curies
	return e
}

// mergeWithEmbedding re-keys every relation type against the merged
// registry and recursively applies the merge to every embedded
// sub-resource, so curied keys stay consistent at every nesting depth.
// Entries whose keys resolve to the same relation type are combined in
// order; the last single tag wins only when one item remains.
func (e Embedded) mergeWithEmbedding(curies Curies) Embedded {
	merged := Embedded{curies: curies}
	for _, entry := range e.entries {
		rel := curies.Resolve(entry.rel)
		items := make([]Representation, len(entry.items))
		for i, item := range entry.items {
			items[i] = item.MergeWithEmbedding(curies)
		}
		if existing, ok := merged.entryFor(rel); ok {
			items = append(existing.items, items...)
			merged = merged.setEntry(embeddedEntry{rel: rel, single: len(items) == 1 && existing.single && entry.single, items: items})
			continue
		}
		merged.entries = append(merged.entries, embeddedEntry{rel: rel, single: entry.single, items: items})
	}
	return merged
}
