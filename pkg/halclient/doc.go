// Package halclient provides the HTTP implementation of traverson.LinkResolver.
//
// A Client fetches link targets over HTTP with HAL accept headers and maps
// response statuses onto the structured errors from pkg/errors. Transient
// failures (connection errors, 5xx, 429) are retried with exponential
// backoff through pkg/httputil, and response bodies can be cached by URL
// through any pkg/cache backend.
//
// # Resolving links
//
//	client := halclient.New(
//	    halclient.WithUserAgent("waypost/1.0"),
//	    halclient.WithCache(cache.NewMemoryCache(), 5*time.Minute),
//	)
//	t := traverson.New(client).StartWith("https://api.example.org/")
//
// # Recording and replaying
//
// A Recorder wraps any resolver and writes every response body it sees into
// a cache under a session namespace. A Replayer resolves the same traversal
// later without network access:
//
//	rec := halclient.NewRecorder(client, store)
//	// ... traverse through rec ...
//	replay := halclient.NewReplayer(store, rec.Session())
//	// ... traverse through replay, offline ...
package halclient
