// Package sitemap crawls a hypermedia API and renders its rel-graph.
//
// A Crawler walks the API breadth-first from a start URL, following link
// relations through any traverson.LinkResolver and collecting every
// discovered resource into a Graph. The graph serializes to JSON or converts
// to Graphviz DOT for rendering:
//
//	crawler := &sitemap.Crawler{Resolver: client, MaxDepth: 2}
//	graph, err := crawler.Crawl(ctx, "https://api.example.org/")
//	if err != nil {
//	    return err
//	}
//	svg, err := sitemap.Render(ctx, sitemap.ToDOT(graph, sitemap.DOTOptions{}), sitemap.FormatSVG)
//
// Crawls are bounded by depth and page budgets and never follow templated
// links, so pointing the crawler at a large API stays safe.
package sitemap
