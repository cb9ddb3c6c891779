// Package traverson navigates HAL+JSON APIs by following link relations.
//
// A [Traverson] is a cursor over a hypermedia API: it starts at a URL or an
// already-fetched resource, follows a queue of relation-type hops, and hands
// back the representation the journey ends on. Navigation methods return new
// cursors and never mutate the receiver, so a cursor can be branched cheaply
// and shared across goroutines.
//
// # Following links
//
//	t := traverson.New(client).
//	    StartWith("https://api.example.org/").
//	    Follow("ws:books", "ws:author")
//	author, err := t.Representation(ctx)
//
// Each hop prefers links over embedded items: when a matching link exists it
// is fetched, otherwise the hop falls back to the embedded items under the
// same relation type. [Traverson.FollowLink] disables the fallback.
//
// # Templates and predicates
//
// Templated links are expanded before fetching, by default as RFC 6570
// templates through [ExpandTemplate]. Hops added with [Traverson.FollowWith]
// carry their own variables and select among multiple links per relation
// type with a [hal.LinkPredicate].
//
// # Pagination
//
// [Traverson.Paginate] walks a chain of pages connected by a relation type
// such as "next", invoking a [PageHandler] once per page until the handler
// stops, the chain ends, or the context is cancelled.
//
// Fetching itself is delegated to a [LinkResolver]; pkg/halclient provides
// the HTTP implementation.
package traverson
