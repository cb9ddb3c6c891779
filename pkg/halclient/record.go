package halclient

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/waypost-dev/waypost/pkg/cache"
	"github.com/waypost-dev/waypost/pkg/errors"
	"github.com/waypost-dev/waypost/pkg/hal"
	"github.com/waypost-dev/waypost/pkg/traverson"
)

// sessionPrefix scopes one recorded session inside a shared cache backend.
func sessionPrefix(session string) string {
	return "record:" + session + ":"
}

// Recorder wraps a link resolver and writes every resolved response body
// into a cache under a session namespace. A recorded session can later be
// replayed offline with a Replayer.
type Recorder struct {
	resolver traverson.LinkResolver
	store    cache.Cache
	session  string
	logger   *log.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSession pins the session identifier. By default a random UUID is
// generated per Recorder.
func WithSession(id string) RecorderOption {
	return func(r *Recorder) { r.session = id }
}

// WithRecorderLogger sets the logger for recording diagnostics.
func WithRecorderLogger(logger *log.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = logger }
}

// NewRecorder creates a Recorder that resolves links through resolver and
// records the bodies into store.
func NewRecorder(resolver traverson.LinkResolver, store cache.Cache, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		resolver: resolver,
		session:  uuid.NewString(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.store = cache.NewScoped(store, sessionPrefix(r.session))
	return r
}

// Session returns the session identifier responses are recorded under.
func (r *Recorder) Session() string {
	return r.session
}

// ResolveLink resolves the link through the wrapped resolver and records the
// response body. Recording failures are logged, not returned: a broken
// recording store must not break the live traversal.
func (r *Recorder) ResolveLink(ctx context.Context, link hal.Link) ([]byte, error) {
	body, err := r.resolver.ResolveLink(ctx, link)
	if err != nil {
		return nil, err
	}
	key := cache.Hash([]byte(link.Href))
	if err := r.store.Set(ctx, key, body, 0); err != nil {
		r.logger.Warn("cannot record response", "url", link.Href, "session", r.session, "error", err)
	}
	return body, nil
}

// Replayer resolves links exclusively from a recorded session. Links that
// were never recorded resolve to a NOT_FOUND error, so replayed traversals
// never touch the network.
type Replayer struct {
	store   cache.Cache
	session string
}

// NewReplayer creates a Replayer reading the given session from store.
func NewReplayer(store cache.Cache, session string) *Replayer {
	return &Replayer{
		store:   cache.NewScoped(store, sessionPrefix(session)),
		session: session,
	}
}

// ResolveLink returns the recorded response body for the link target.
func (r *Replayer) ResolveLink(ctx context.Context, link hal.Link) ([]byte, error) {
	data, hit, err := r.store.Get(ctx, cache.Hash([]byte(link.Href)))
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, errors.New(errors.ErrCodeNotFound, "no recorded response for %q in session %s", link.Href, r.session)
	}
	return data, nil
}

var (
	_ traverson.LinkResolver = (*Recorder)(nil)
	_ traverson.LinkResolver = (*Replayer)(nil)
)
