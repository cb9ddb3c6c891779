package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waypost-dev/waypost/pkg/sitemap"
)

// sitemapCommand creates the sitemap command for crawling rel-graphs.
func (c *CLI) sitemapCommand() *cobra.Command {
	var (
		depth     int
		maxPages  int
		output    string
		formatStr string
		detailed  bool
		asJSON    bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "sitemap URL",
		Short: "Crawl an API and render its rel-graph",
		Long: `Crawl an API and render its rel-graph.

Starting at URL, the crawler follows every untemplated link relation
breadth-first up to --depth hops and draws the resulting graph of
resources and relation types. Templated links are skipped since a blind
crawl has no variables to expand them with.`,
		Example: `  waypost sitemap http://localhost:8080/api
  waypost sitemap http://localhost:8080/api --depth 4 -o api.svg
  waypost sitemap http://localhost:8080/api --format dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := sitemap.ParseFormat(formatStr)
			if err != nil {
				return err
			}
			return c.runSitemap(cmd.Context(), sitemapParams{
				url:      args[0],
				depth:    depth,
				maxPages: maxPages,
				output:   output,
				format:   format,
				detailed: detailed,
				asJSON:   asJSON,
				noCache:  noCache,
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 3, "how many hops away from the start to crawl")
	cmd.Flags().IntVar(&maxPages, "max", sitemap.DefaultMaxPages, "cap on fetched resources")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default sitemap.<format>, or stdout for dot/json)")
	cmd.Flags().StringVar(&formatStr, "format", "svg", "output format: svg, png, dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include relation types in node labels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the crawled graph as JSON instead of rendering")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type sitemapParams struct {
	url      string
	depth    int
	maxPages int
	output   string
	format   sitemap.Format
	detailed bool
	asJSON   bool
	noCache  bool
}

func (c *CLI) runSitemap(ctx context.Context, params sitemapParams) error {
	startURL, err := c.resolveURL(params.url)
	if err != nil {
		return err
	}
	resolver, err := c.newResolver(params.noCache)
	if err != nil {
		return err
	}

	crawler := &sitemap.Crawler{
		Resolver: resolver,
		MaxDepth: params.depth,
		MaxPages: params.maxPages,
		Logger:   c.Logger,
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Crawling %s...", startURL))
	spinner.Start()
	graph, err := crawler.Crawl(ctx, startURL)
	if err != nil {
		spinner.StopWithError("Crawl failed")
		return fmt.Errorf("crawl %s: %w", startURL, err)
	}
	spinner.Stop()
	printInfo("Crawled %d resources, %d links", len(graph.Nodes), len(graph.Edges))

	if params.asJSON {
		return c.writeSitemap(params.output, graph, "json")
	}

	dot := sitemap.ToDOT(graph, sitemap.DOTOptions{Detailed: params.detailed})
	rendered, err := sitemap.Render(ctx, dot, params.format)
	if err != nil {
		return fmt.Errorf("render sitemap: %w", err)
	}
	return c.writeSitemap(params.output, rendered, string(params.format))
}

// writeSitemap writes the rendered graph to the output file, defaulting
// to sitemap.<ext> for binary formats and stdout for textual ones.
func (c *CLI) writeSitemap(output string, result any, ext string) error {
	var data []byte
	switch v := result.(type) {
	case []byte:
		data = v
	default:
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		data = append(encoded, '\n')
	}

	if output == "" {
		if ext == "dot" || ext == "json" {
			_, err := os.Stdout.Write(data)
			return err
		}
		output = "sitemap." + ext
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Sitemap written")
	printFile(output)
	return nil
}
