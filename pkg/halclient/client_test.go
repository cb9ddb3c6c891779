package halclient

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/waypost-dev/waypost/pkg/cache"
	"github.com/waypost-dev/waypost/pkg/errors"
	"github.com/waypost-dev/waypost/pkg/hal"
)

const bookDoc = `{
	"_links": {"self": {"href": "/books/1"}},
	"title": "Moby-Dick"
}`

func TestClientResolvesLink(t *testing.T) {
	var gotAccept, gotAgent, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		gotToken = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/hal+json")
		w.Write([]byte(bookDoc))
	}))
	defer server.Close()

	client := New(
		WithHTTPClient(server.Client()),
		WithUserAgent("waypost-test/1.0"),
		WithHeader("Authorization", "Bearer token"),
	)
	body, err := client.ResolveLink(context.Background(), hal.Self(server.URL+"/books/1"))
	if err != nil {
		t.Fatalf("ResolveLink() error = %v", err)
	}
	if string(body) != bookDoc {
		t.Errorf("ResolveLink() body = %q, want %q", body, bookDoc)
	}
	if gotAccept != "application/hal+json, application/json;q=0.9" {
		t.Errorf("Accept header = %q", gotAccept)
	}
	if gotAgent != "waypost-test/1.0" {
		t.Errorf("User-Agent header = %q", gotAgent)
	}
	if gotToken != "Bearer token" {
		t.Errorf("Authorization header = %q", gotToken)
	}
}

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bookDoc))
	}))
	defer server.Close()

	client := New(WithHTTPClient(server.Client()))
	rep, err := client.Get(context.Background(), server.URL+"/books/1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	title, err := hal.AttributeAs[string](rep, "title")
	if err != nil {
		t.Fatalf("AttributeAs() error = %v", err)
	}
	if title != "Moby-Dick" {
		t.Errorf("title = %q, want %q", title, "Moby-Dick")
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode errors.Code
	}{
		{"not found", http.StatusNotFound, errors.ErrCodeNotFound},
		{"teapot", http.StatusTeapot, errors.ErrCodeHTTPStatus},
		{"unauthorized", http.StatusUnauthorized, errors.ErrCodeHTTPStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := New(WithHTTPClient(server.Client()), WithRetry(1, time.Millisecond))
			_, err := client.ResolveLink(context.Background(), hal.Self(server.URL))
			if err == nil {
				t.Fatal("ResolveLink() expected error, got nil")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("ResolveLink() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestClientStatusErrorDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := New(WithHTTPClient(server.Client()))
	_, err := client.ResolveLink(context.Background(), hal.Self(server.URL))

	var statusErr *errors.StatusError
	if !stderrors.As(err, &statusErr) {
		t.Fatalf("ResolveLink() error = %v, want StatusError", err)
	}
	if statusErr.StatusCode != http.StatusTeapot {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusTeapot)
	}
	if statusErr.URL != server.URL {
		t.Errorf("URL = %q, want %q", statusErr.URL, server.URL)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(bookDoc))
	}))
	defer server.Close()

	client := New(WithHTTPClient(server.Client()), WithRetry(3, time.Millisecond))
	body, err := client.ResolveLink(context.Background(), hal.Self(server.URL))
	if err != nil {
		t.Fatalf("ResolveLink() error = %v", err)
	}
	if string(body) != bookDoc {
		t.Errorf("ResolveLink() body = %q", body)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hits = %d, want 3", got)
	}
}

func TestClientRetryExhaustion(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(WithHTTPClient(server.Client()), WithRetry(2, time.Millisecond))
	_, err := client.ResolveLink(context.Background(), hal.Self(server.URL))
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("ResolveLink() error = %v, want code %s", err, errors.ErrCodeNetwork)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestClientRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(WithHTTPClient(server.Client()), WithRetry(1, time.Millisecond))
	_, err := client.ResolveLink(context.Background(), hal.Self(server.URL))
	if !errors.Is(err, errors.ErrCodeRateLimited) {
		t.Fatalf("ResolveLink() error = %v, want code %s", err, errors.ErrCodeRateLimited)
	}
	var limited *errors.RateLimitedError
	if !stderrors.As(err, &limited) {
		t.Fatalf("ResolveLink() error = %v, want RateLimitedError", err)
	}
	if limited.RetryAfter != 7 {
		t.Errorf("RetryAfter = %d, want 7", limited.RetryAfter)
	}
}

func TestClientConnectionErrorIsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(WithRetry(1, time.Millisecond))
	_, err := client.ResolveLink(context.Background(), hal.Self(url))
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("ResolveLink() error = %v, want code %s", err, errors.ErrCodeNetwork)
	}
}

func TestClientCachesResponses(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(bookDoc))
	}))
	defer server.Close()

	client := New(
		WithHTTPClient(server.Client()),
		WithCache(cache.NewMemoryCache(), time.Minute),
	)
	link := hal.Self(server.URL + "/books/1")

	for i := 0; i < 3; i++ {
		body, err := client.ResolveLink(context.Background(), link)
		if err != nil {
			t.Fatalf("ResolveLink() call %d error = %v", i, err)
		}
		if string(body) != bookDoc {
			t.Errorf("ResolveLink() call %d body = %q", i, body)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestClientErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(bookDoc))
	}))
	defer server.Close()

	client := New(
		WithHTTPClient(server.Client()),
		WithCache(cache.NewMemoryCache(), time.Minute),
		WithRetry(1, time.Millisecond),
	)
	link := hal.Self(server.URL)

	if _, err := client.ResolveLink(context.Background(), link); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("first ResolveLink() error = %v, want code %s", err, errors.ErrCodeNotFound)
	}
	body, err := client.ResolveLink(context.Background(), link)
	if err != nil {
		t.Fatalf("second ResolveLink() error = %v", err)
	}
	if string(body) != bookDoc {
		t.Errorf("second ResolveLink() body = %q", body)
	}
}
