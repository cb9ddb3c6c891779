// Package halserver implements the waypost demo API: a small hypermedia
// bookshop serving application/hal+json.
//
// The server exists so the CLI has something real to traverse without
// leaving the machine. Its documents exercise the full document model:
// CURIE definitions, templated links, paginated collections with
// next/prev chains, and embedded sub-resources nested two levels deep.
//
// # Resources
//
//   - GET /api              API root: curies, templated ws:books link,
//     embedded ws:featured teasers
//   - GET /api/books?page=N paginated collection with embedded ws:book items
//   - GET /api/books/{id}   a single book with an embedded ws:author
//   - GET /api/rels/{rel}   plain-text relation-type documentation
//
// Use [Server.Handler] to mount the routes on any listener, or [Server.Run]
// to serve until the context is cancelled.
package halserver
