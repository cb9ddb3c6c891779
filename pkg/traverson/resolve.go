package traverson

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/waypost-dev/waypost/pkg/errors"
	"github.com/waypost-dev/waypost/pkg/hal"
)

// ErrNoResult reports that a traversal completed without producing a
// representation, for example when the final hop matched neither a link nor
// an embedded item.
var ErrNoResult = stderrors.New("traverson: no result")

// Representation resolves the queued hops and returns the representation
// the traversal ends on. It returns [ErrNoResult] when the hop queue
// empties without a match.
func (t *Traverson) Representation(ctx context.Context) (hal.Representation, error) {
	results, _, err := t.resolve(ctx, false)
	if err != nil {
		return hal.Representation{}, err
	}
	if len(results) == 0 {
		return hal.Representation{}, ErrNoResult
	}
	return results[0], nil
}

// Representations resolves the queued hops in retrieve-all mode: every link
// matching the final hop is fetched and returned in link order. A final hop
// with no match returns an empty slice, not an error.
func (t *Traverson) Representations(ctx context.Context) ([]hal.Representation, error) {
	results, _, err := t.resolve(ctx, true)
	return results, err
}

// Resource resolves the traversal and decodes the resulting document into
// v, which must be a pointer.
func (t *Traverson) Resource(ctx context.Context, v any) error {
	rep, err := t.Representation(ctx)
	if err != nil {
		return err
	}
	return decodeResource(rep, v)
}

// ResourceAs resolves the traversal and decodes the resulting document
// into a T.
func ResourceAs[T any](ctx context.Context, t *Traverson) (T, error) {
	var out T
	if err := t.Resource(ctx, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ResourcesAs resolves the traversal in retrieve-all mode and decodes every
// resulting document into a T, preserving link order.
func ResourcesAs[T any](ctx context.Context, t *Traverson) ([]T, error) {
	reps, err := t.Representations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(reps))
	for i, rep := range reps {
		if err := decodeResource(rep, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeResource(rep hal.Representation, v any) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "cannot re-encode representation")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "cannot decode representation into %T", v)
	}
	return nil
}

// resolve walks the hop queue. It fetches the start URL when the cursor was
// positioned with StartWith, then hands off to traverse. The returned URL
// is the base the final representation was fetched relative to.
func (t *Traverson) resolve(ctx context.Context, all bool) ([]hal.Representation, *url.URL, error) {
	if t.err != nil {
		return nil, nil, t.err
	}
	if !t.started() {
		return nil, nil, errors.New(errors.ErrCodeIllegalState, "traversal not started, call StartWith first")
	}

	base := t.contextURL
	reps := t.current
	if len(reps) == 0 {
		rep, fetched, err := t.fetchLink(ctx, base, hal.Self(t.startURL), nil)
		if err != nil {
			return nil, nil, err
		}
		reps = []hal.Representation{rep}
		base = fetched
	}
	if len(t.hops) == 0 {
		return reps, base, nil
	}
	return t.traverse(ctx, base, reps[0], t.hops, all)
}

// traverse applies the first hop to current and recurses into the rest.
//
// A hop prefers links: when one or more links match the hop, the first is
// followed (or, for a final hop in retrieve-all mode, every one of them).
// Without a matching link the hop falls back to the embedded items under
// the relation type, unless ignoreEmbedded is set, in which case it yields
// nothing.
func (t *Traverson) traverse(ctx context.Context, base *url.URL, current hal.Representation, hops []hop, all bool) ([]hal.Representation, *url.URL, error) {
	h, rest := hops[0], hops[1:]

	if links := current.Links().LinksWhere(h.rel, h.predicate); len(links) > 0 {
		if len(rest) > 0 {
			next, fetched, err := t.fetchLink(ctx, base, links[0], h.vars)
			if err != nil {
				return nil, nil, err
			}
			return t.traverse(ctx, fetched, next, rest, all)
		}
		if all {
			results, err := t.fetchAll(ctx, base, links, h.vars)
			if err != nil {
				return nil, nil, err
			}
			return results, base, nil
		}
		next, fetched, err := t.fetchLink(ctx, base, links[0], h.vars)
		if err != nil {
			return nil, nil, err
		}
		return []hal.Representation{next}, fetched, nil
	}

	if !h.ignoreEmbedded {
		items := current.Embedded().ItemsBy(h.rel)
		if len(items) == 0 {
			return nil, base, nil
		}
		t.logger.Debug("no link matches, using embedded items", "rel", h.rel, "items", len(items))
		if len(rest) > 0 {
			return t.traverse(ctx, base, items[0], rest, all)
		}
		if all {
			return items, base, nil
		}
		return items[:1], base, nil
	}

	t.logger.Warn("no link matches relation type", "rel", h.rel)
	return nil, base, nil
}

// fetchLink expands, resolves, and fetches one link, returning the decoded
// representation and the absolute URL it was fetched from.
func (t *Traverson) fetchLink(ctx context.Context, base *url.URL, link hal.Link, vars Vars) (hal.Representation, *url.URL, error) {
	href := link.Href
	if link.Templated() {
		expanded, err := t.expand(href, vars)
		if err != nil {
			return hal.Representation{}, nil, err
		}
		href = expanded
	}
	ref, err := url.Parse(href)
	if err != nil {
		return hal.Representation{}, nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "cannot parse href %q", href)
	}
	target := ref
	if base != nil {
		target = base.ResolveReference(ref)
	}

	resolved := link
	resolved.Href = target.String()
	t.logger.Debug("resolving link", "rel", link.Rel, "url", resolved.Href)

	body, err := t.resolver.ResolveLink(ctx, resolved)
	if err != nil {
		return hal.Representation{}, nil, err
	}
	rep, err := hal.Parse(body)
	if err != nil {
		return hal.Representation{}, nil, err
	}
	return rep, target, nil
}

// fetchAll fetches every link concurrently and returns the results in link
// order. The first failure cancels the remaining fetches.
func (t *Traverson) fetchAll(ctx context.Context, base *url.URL, links []hal.Link, vars Vars) ([]hal.Representation, error) {
	results := make([]hal.Representation, len(links))
	g, ctx := errgroup.WithContext(ctx)
	for i, link := range links {
		g.Go(func() error {
			rep, _, err := t.fetchLink(ctx, base, link, vars)
			if err != nil {
				return err
			}
			results[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
