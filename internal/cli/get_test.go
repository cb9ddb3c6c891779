package cli

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/waypost-dev/waypost/internal/halserver"
)

func TestParseVars(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: nil},
		{name: "single", pairs: []string{"page=2"}, want: map[string]any{"page": "2"}},
		{
			name:  "multiple",
			pairs: []string{"page=2", "q=go books"},
			want:  map[string]any{"page": "2", "q": "go books"},
		},
		{name: "value with equals", pairs: []string{"filter=a=b"}, want: map[string]any{"filter": "a=b"}},
		{name: "empty value", pairs: []string{"page="}, want: map[string]any{"page": ""}},
		{name: "missing equals", pairs: []string{"page"}, wantErr: true},
		{name: "missing key", pairs: []string{"=2"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVars(tt.pairs)
			if tt.wantErr {
				if err == nil {
					t.Error("parseVars() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVars() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseVars() = %v, want %v", got, tt.want)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("vars[%q] = %v, want %v", key, got[key], want)
				}
			}
		})
	}
}

func TestRunGet(t *testing.T) {
	srv := httptest.NewServer(halserver.New().Handler())
	defer srv.Close()

	c := New(io.Discard, LogInfo)
	c.config = DefaultConfig()
	ctx := context.Background()

	t.Run("start resource", func(t *testing.T) {
		err := c.runGet(ctx, getParams{url: srv.URL + "/api", noCache: true})
		if err != nil {
			t.Fatalf("runGet() error: %v", err)
		}
	})

	t.Run("curied follow with vars", func(t *testing.T) {
		err := c.runGet(ctx, getParams{
			url:     srv.URL + "/api",
			follows: []string{"ws:books"},
			vars:    map[string]any{"page": 1},
			noCache: true,
		})
		if err != nil {
			t.Fatalf("runGet() error: %v", err)
		}
	})

	t.Run("miss is reported, not an error", func(t *testing.T) {
		err := c.runGet(ctx, getParams{
			url:     srv.URL + "/api",
			follows: []string{"no:such-rel"},
			noCache: true,
		})
		if err != nil {
			t.Fatalf("runGet() should swallow a traversal miss, got: %v", err)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		c.config = DefaultConfig()
		c.profile = "staging"
		err := c.runGet(ctx, getParams{url: srv.URL + "/api", noCache: true})
		if err == nil {
			t.Error("unknown profile should error")
		}
	})
}
