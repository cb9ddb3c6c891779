package traverson

import (
	"context"
	"net/url"

	"github.com/waypost-dev/waypost/pkg/hal"
)

// PageHandler is invoked once per page during pagination. The cursor it
// receives is positioned on the current page, so the page's document is
// available without a further fetch and additional hops can branch off it.
// Returning false stops the loop.
type PageHandler func(ctx context.Context, page *Traverson) (bool, error)

// Paginate resolves the queued hops, then walks the chain of pages
// connected by rel. For every page, including the first, handler runs with
// a cursor positioned on that page. The loop stops when the handler returns
// false or the current page has no link for rel. Handler and resolver
// errors propagate.
func (t *Traverson) Paginate(ctx context.Context, rel string, handler PageHandler) error {
	reps, base, err := t.resolve(ctx, false)
	if err != nil {
		return err
	}
	if len(reps) == 0 {
		return ErrNoResult
	}

	page := reps[0]
	for {
		cont, err := handler(ctx, t.pageCursor(base, page))
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		link, ok := page.Links().LinkBy(rel)
		if !ok {
			return nil
		}
		next, fetched, err := t.fetchLink(ctx, base, link, nil)
		if err != nil {
			return err
		}
		page, base = next, fetched
	}
}

// pageCursor builds a fresh cursor positioned on page with base as its
// context URL, sharing the parent's resolver, expander, and logger.
func (t *Traverson) pageCursor(base *url.URL, page hal.Representation) *Traverson {
	return &Traverson{
		resolver:   t.resolver,
		expand:     t.expand,
		logger:     t.logger,
		contextURL: base,
		current:    []hal.Representation{page},
	}
}

// PaginateNext pages forward through the "next" relation type.
func (t *Traverson) PaginateNext(ctx context.Context, handler PageHandler) error {
	return t.Paginate(ctx, hal.RelNext, handler)
}

// PaginatePrev pages backward through the "prev" relation type.
func (t *Traverson) PaginatePrev(ctx context.Context, handler PageHandler) error {
	return t.Paginate(ctx, hal.RelPrev, handler)
}
