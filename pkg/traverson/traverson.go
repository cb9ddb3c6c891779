package traverson

import (
	"io"
	"net/url"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/waypost-dev/waypost/pkg/errors"
	"github.com/waypost-dev/waypost/pkg/hal"
)

// hop is one pending step of a traversal.
type hop struct {
	rel            string
	predicate      hal.LinkPredicate
	vars           Vars
	ignoreEmbedded bool
}

// Traverson is a cursor over a HAL API. It holds a resolver, the place the
// traversal starts from, and a queue of hops still to follow. Navigation
// methods return a new cursor and leave the receiver untouched; errors from
// navigation are deferred and surface at resolution time, first error wins.
//
// Create cursors with [New], position them with one of the StartWith
// methods, queue hops with Follow, FollowWith, or FollowLink, and resolve
// with [Traverson.Representation] and friends.
type Traverson struct {
	resolver LinkResolver
	expand   ExpandFunc
	logger   *log.Logger

	startURL   string
	contextURL *url.URL
	hops       []hop
	current    []hal.Representation
	err        error
}

// Option configures a Traverson at construction time.
type Option func(*Traverson)

// WithLogger sets the logger used for traversal diagnostics. By default
// nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(t *Traverson) { t.logger = logger }
}

// WithExpander replaces the URI-template expansion function. The default is
// [ExpandTemplate].
func WithExpander(expand ExpandFunc) Option {
	return func(t *Traverson) { t.expand = expand }
}

// New returns an unstarted cursor that fetches documents through resolver.
func New(resolver LinkResolver, opts ...Option) *Traverson {
	t := &Traverson{
		resolver: resolver,
		expand:   ExpandTemplate,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.expand == nil {
		t.expand = ExpandTemplate
	}
	if t.logger == nil {
		t.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if resolver == nil {
		t.err = errors.New(errors.ErrCodeInvalidArgument, "no link resolver configured")
	}
	return t
}

func (t *Traverson) clone() *Traverson {
	c := *t
	c.hops = slices.Clone(t.hops)
	c.current = slices.Clone(t.current)
	return &c
}

// started reports whether the cursor has an entry point to resolve from.
func (t *Traverson) started() bool {
	return t.startURL != "" || len(t.current) > 0
}

// StartWith positions the cursor at uri. The document is not fetched until
// a resolution method runs. A uri that does not parse defers an
// INVALID_ARGUMENT error.
func (t *Traverson) StartWith(uri string) *Traverson {
	c := t.clone()
	c.startURL, c.contextURL, c.current, c.hops = "", nil, nil, nil
	u, err := url.Parse(uri)
	if err != nil {
		if c.err == nil {
			c.err = errors.Wrap(errors.ErrCodeInvalidArgument, err, "cannot parse start URL %q", uri)
		}
		return c
	}
	c.startURL = uri
	c.contextURL = u
	return c
}

// StartWithTemplate expands an RFC 6570 uriTemplate with vars and starts
// there. Expansion failures defer an INVALID_ARGUMENT error.
func (t *Traverson) StartWithTemplate(uriTemplate string, vars Vars) *Traverson {
	expanded, err := t.expand(uriTemplate, vars)
	if err != nil {
		c := t.clone()
		c.startURL, c.contextURL, c.current, c.hops = "", nil, nil, nil
		if c.err == nil {
			c.err = errors.Wrap(errors.ErrCodeInvalidArgument, err, "cannot expand start template %q", uriTemplate)
		}
		return c
	}
	return t.StartWith(expanded)
}

// StartWithResource positions the cursor on an already-fetched resource.
// The resource needs a self link with an absolute href to act as the base
// for relative links; lacking one, it may only carry absolute links (curies
// excepted). Anything else defers an INVALID_ARGUMENT error.
func (t *Traverson) StartWithResource(resource hal.Representation) *Traverson {
	c := t.clone()
	c.startURL, c.contextURL, c.hops = "", nil, nil
	c.current = []hal.Representation{resource}

	if self, ok := resource.Links().LinkBy(hal.RelSelf); ok {
		u, err := url.Parse(self.Href)
		if err != nil || !u.IsAbs() {
			if c.err == nil {
				c.err = errors.New(errors.ErrCodeInvalidArgument, "self link %q is not an absolute URL", self.Href)
			}
			return c
		}
		c.contextURL = u
		return c
	}
	for _, rel := range resource.Links().Rels() {
		if rel == hal.RelCuries {
			continue
		}
		for _, link := range resource.Links().LinksBy(rel) {
			if u, err := url.Parse(link.Href); err != nil || !u.IsAbs() {
				if c.err == nil {
					c.err = errors.New(errors.ErrCodeInvalidArgument,
						"resource has no self link but carries a relative link for %q", rel)
				}
				return c
			}
		}
	}
	return c
}

// StartWithContext positions the cursor on resource with an explicit base
// URL for resolving relative links. No self link is required.
func (t *Traverson) StartWithContext(contextURL string, resource hal.Representation) *Traverson {
	c := t.clone()
	c.startURL, c.hops = "", nil
	c.current = []hal.Representation{resource}
	u, err := url.Parse(contextURL)
	if err != nil {
		c.contextURL = nil
		if c.err == nil {
			c.err = errors.Wrap(errors.ErrCodeInvalidArgument, err, "cannot parse context URL %q", contextURL)
		}
		return c
	}
	c.contextURL = u
	return c
}

// Follow queues one hop per relation type, in order. Links take priority
// over embedded items; an embedded item is used when no link matches.
func (t *Traverson) Follow(rels ...string) *Traverson {
	c := t
	for _, rel := range rels {
		c = c.follow(hop{rel: rel})
	}
	return c
}

// FollowWith queues a hop that selects among the relation type's links with
// predicate and expands templated hrefs with vars.
func (t *Traverson) FollowWith(rel string, predicate hal.LinkPredicate, vars Vars) *Traverson {
	return t.follow(hop{rel: rel, predicate: predicate, vars: vars})
}

// FollowLink queues a hop that only follows links. When no link matches the
// hop yields nothing instead of falling back to embedded items.
func (t *Traverson) FollowLink(rel string, predicate hal.LinkPredicate, vars Vars) *Traverson {
	return t.follow(hop{rel: rel, predicate: predicate, vars: vars, ignoreEmbedded: true})
}

func (t *Traverson) follow(h hop) *Traverson {
	c := t.clone()
	if c.err == nil && !c.started() {
		c.err = errors.New(errors.ErrCodeIllegalState, "cannot follow %q before starting a traversal", h.rel)
	}
	if h.predicate == nil {
		h.predicate = hal.AnyLink()
	}
	c.hops = append(c.hops, h)
	return c
}
