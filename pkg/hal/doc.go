// Package hal models HAL+JSON hypermedia documents: resources carrying
// typed hyperlinks under "_links", nested sub-resources under
// "_embedded", and CURIE-based relation-type abbreviation.
//
// # Overview
//
// The package is built from small immutable values, leaves first:
//
//   - [Link]: one hyperlink with relation type, href and metadata
//   - [CuriTemplate]: converts a relation type between curied and
//     expanded form
//   - [Curies]: ordered registry of CURIE links
//   - [Links]: relation type to single-or-array of links
//   - [Embedded]: relation type to embedded sub-resources
//   - [Representation]: a full document with opaque attributes
//
// All of them are plain values; deriving a variant returns a new value,
// so prototypes can be shared across goroutines without locking.
//
// # Building Documents
//
// Links are assembled with the [LinkingTo] builder, representations
// with chained With* methods:
//
//	links, err := hal.LinkingTo().
//	    Self("http://example.org/books").
//	    Curi("x", "http://example.org/rels/{rel}").
//	    Array(hal.NewLink("x:book", "/books/1"), hal.NewLink("x:book", "/books/2")).
//	    Build()
//
//	page, err := hal.NewRepresentation().
//	    WithLinks(links).
//	    WithAttribute("total", 2)
//
// # Curies
//
// A CURIE link names a template like "http://example.org/rels/{rel}"
// under a short prefix. Relation-type keys are stored in curie-resolved
// form and lookups resolve the queried rel the same way, so
// LinksBy("x:book") and LinksBy("http://example.org/rels/book") are
// interchangeable. When a representation is embedded into a parent,
// [Representation.MergeWithEmbedding] propagates the merged registry
// down the whole subtree.
//
// # Wire Format
//
// Documents encode to and decode from application/hal+json via the
// standard encoding/json interfaces and [Parse]. Whether a relation
// type renders as a single object or as an array is an explicit tag on
// each entry, preserved across round trips rather than inferred from
// length. Top-level members other than "_links" and "_embedded" stay
// uninterpreted raw JSON, in document order.
package hal
