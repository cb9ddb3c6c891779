package sitemap

import (
	"context"
	"io"
	"net/url"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/waypost-dev/waypost/pkg/errors"
	"github.com/waypost-dev/waypost/pkg/hal"
	"github.com/waypost-dev/waypost/pkg/traverson"
)

// Crawl defaults, applied when the corresponding Crawler field is zero.
const (
	DefaultMaxPages    = 100
	DefaultConcurrency = 4
)

// Crawler walks an API breadth-first, following link relations to build the
// rel-graph of the reachable resources.
type Crawler struct {
	// Resolver fetches link targets. Required.
	Resolver traverson.LinkResolver

	// MaxDepth is the number of hops away from the start resource to
	// follow. Zero crawls only the start resource itself.
	MaxDepth int

	// MaxPages caps how many resources are fetched in total.
	MaxPages int

	// Concurrency bounds parallel fetches within one depth level.
	Concurrency int

	// FollowRel filters which relation types are walked and recorded.
	// When nil every relation is followed. self and curies are always
	// excluded: the first loops, the second is registry machinery.
	FollowRel func(rel string) bool

	// Logger receives crawl diagnostics. Silent when nil.
	Logger *log.Logger
}

type fetchResult struct {
	rep hal.Representation
	err error
}

// Crawl fetches startURL and walks its links breadth-first up to MaxDepth
// hops, returning the discovered graph. Pages that fail to fetch after the
// first are logged and kept as stub nodes so one broken resource does not
// lose the rest of the map.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*Graph, error) {
	if c.Resolver == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "crawler has no resolver")
	}
	start, err := url.Parse(startURL)
	if err != nil || !start.IsAbs() {
		return nil, errors.New(errors.ErrCodeInvalidURL, "start URL %q is not an absolute URL", startURL)
	}

	logger := c.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	graph := NewGraph()
	scheduled := map[string]bool{start.String(): true}
	frontier := []string{start.String()}
	fetched := 0

	for depth := 0; depth <= c.MaxDepth && len(frontier) > 0; depth++ {
		results, err := c.fetchAll(ctx, logger, frontier, concurrency)
		if err != nil {
			return nil, err
		}

		var next []string
		for i, result := range results {
			pageURL := frontier[i]
			if result.err != nil {
				if fetched == 0 {
					return nil, result.err
				}
				logger.Warn("cannot fetch page", "url", pageURL, "error", result.err)
				graph.AddNode(Node{ID: pageURL})
				continue
			}
			fetched++
			graph.AddNode(pageNode(pageURL, result.rep))

			for _, edge := range c.pageEdges(pageURL, result.rep, logger) {
				if !graph.AddEdge(edge) {
					continue
				}
				graph.AddNode(Node{ID: edge.To})
				if depth == c.MaxDepth || scheduled[edge.To] {
					continue
				}
				if len(scheduled) >= maxPages {
					logger.Debug("page budget reached", "max", maxPages, "skipped", edge.To)
					continue
				}
				scheduled[edge.To] = true
				next = append(next, edge.To)
			}
		}
		frontier = next
	}

	logger.Info("crawl finished", "pages", fetched, "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return graph, nil
}

// fetchAll resolves one depth level concurrently, keeping results aligned
// with the input order.
func (c *Crawler) fetchAll(ctx context.Context, logger *log.Logger, urls []string, concurrency int) ([]fetchResult, error) {
	results := make([]fetchResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			logger.Debug("crawling", "url", u)
			rep, err := traverson.New(c.Resolver).StartWith(u).Representation(ctx)
			results[i] = fetchResult{rep: rep, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func pageNode(pageURL string, rep hal.Representation) Node {
	node := Node{ID: pageURL}
	if title, err := hal.AttributeAs[string](rep, "title"); err == nil {
		node.Title = title
	}
	for _, rel := range rep.Links().Rels() {
		if rel == hal.RelCuries {
			continue
		}
		node.Rels = append(node.Rels, rel)
	}
	return node
}

// pageEdges lists the followable outgoing links of a page with hrefs
// resolved against the page URL. Templated links are skipped: there are no
// variables to expand them with during a blind crawl.
func (c *Crawler) pageEdges(pageURL string, rep hal.Representation, logger *log.Logger) []Edge {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var edges []Edge
	for _, rel := range rep.Links().Rels() {
		if !c.follow(rel) {
			continue
		}
		for _, link := range rep.Links().LinksBy(rel) {
			if link.Templated() {
				logger.Debug("skipping templated link", "rel", rel, "href", link.Href)
				continue
			}
			ref, err := url.Parse(link.Href)
			if err != nil {
				logger.Warn("skipping malformed href", "rel", rel, "href", link.Href)
				continue
			}
			edges = append(edges, Edge{From: pageURL, To: base.ResolveReference(ref).String(), Rel: rel})
		}
	}
	return edges
}

func (c *Crawler) follow(rel string) bool {
	if rel == hal.RelSelf || rel == hal.RelCuries {
		return false
	}
	if c.FollowRel != nil {
		return c.FollowRel(rel)
	}
	return true
}
