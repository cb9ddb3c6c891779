// Package pkg provides the core libraries for Waypost hypermedia navigation.
//
// # Overview
//
// Waypost works with HAL+JSON (draft-kelly-json-hal) hypermedia APIs: it
// models HAL documents, follows typed link relations across resources, and
// maps out the link structure of an API. The pkg directory is organized
// into three main areas:
//
//  1. [hal] - The HAL document model (links, embedded resources, CURIEs)
//  2. [traverson] - Link traversal (follow chains, templates, pagination)
//  3. [halclient] / [cache] / [httputil] - HTTP transport with caching
//
// # Quick Start
//
// Traverse an API and decode the resource a follow chain ends on:
//
//	import (
//	    "context"
//	    "github.com/waypost-dev/waypost/pkg/halclient"
//	    "github.com/waypost-dev/waypost/pkg/traverson"
//	)
//
//	client := halclient.New()
//	t := traverson.New(client).
//	    StartWith("http://localhost:8080/api").
//	    FollowWith("ws:books", nil, traverson.Vars{"page": 2}).
//	    Follow("item")
//
//	book, err := traverson.ResourceAs[Book](context.Background(), t)
//
// # Main Packages
//
// [hal] - Immutable HAL documents: typed links with builders, embedded
// resources, CURIE registration and resolution, attribute access, and the
// HAL+JSON codec with its single-vs-array link convention.
//
// [traverson] - A cursor over an API. Traversals are declared as a chain
// of relation-type hops and executed lazily; templated links are expanded
// with per-hop variables, embedded resources short-circuit HTTP fetches,
// and paginated collections are walked page by page.
//
// [halclient] - The HTTP link resolver: content negotiation for
// application/hal+json, default headers, retry on transient failures, and
// optional response caching through [cache].
//
// [cache] - Response cache backends: filesystem for the CLI, memory for
// tests, Redis and MongoDB for shared deployments.
//
// [sitemap] - Breadth-first API crawler producing a rel-graph, rendered to
// SVG, PNG, or DOT via Graphviz.
//
// [errors] - Structured errors with stable codes shared by all packages.
//
// [hal]: https://pkg.go.dev/github.com/waypost-dev/waypost/pkg/hal
// [traverson]: https://pkg.go.dev/github.com/waypost-dev/waypost/pkg/traverson
// [halclient]: https://pkg.go.dev/github.com/waypost-dev/waypost/pkg/halclient
// [cache]: https://pkg.go.dev/github.com/waypost-dev/waypost/pkg/cache
// [sitemap]: https://pkg.go.dev/github.com/waypost-dev/waypost/pkg/sitemap
// [errors]: https://pkg.go.dev/github.com/waypost-dev/waypost/pkg/errors
package pkg
