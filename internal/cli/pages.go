package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waypost-dev/waypost/pkg/hal"
	"github.com/waypost-dev/waypost/pkg/traverson"
)

// pagesCommand creates the pages command for walking pagination chains.
func (c *CLI) pagesCommand() *cobra.Command {
	var (
		follows  []string
		varPairs []string
		rel      string
		maxPages int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "pages URL",
		Short: "Walk a pagination chain and summarize every page",
		Long: `Walk a pagination chain and summarize every page.

Starting at URL (after following any --follow hops), the command keeps
following the pagination relation type until the chain ends or --max
pages have been visited. Each page is summarized on one line: its self
href and what it embeds.`,
		Example: `  waypost pages http://localhost:8080/api --follow ws:books
  waypost pages http://localhost:8080/api/books --rel prev --max 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := parseVars(varPairs)
			if err != nil {
				return err
			}
			return c.runPages(cmd.Context(), args[0], follows, vars, rel, maxPages, noCache)
		},
	}

	cmd.Flags().StringArrayVarP(&follows, "follow", "f", nil, "relation type to follow before paginating (repeatable)")
	cmd.Flags().StringArrayVar(&varPairs, "var", nil, "template variable as key=value (repeatable)")
	cmd.Flags().StringVar(&rel, "rel", hal.RelNext, "pagination relation type")
	cmd.Flags().IntVar(&maxPages, "max", 0, "stop after this many pages (0 = no limit)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPages(ctx context.Context, rawURL string, follows []string, vars traverson.Vars, rel string, maxPages int, noCache bool) error {
	startURL, err := c.resolveURL(rawURL)
	if err != nil {
		return err
	}
	resolver, err := c.newResolver(noCache)
	if err != nil {
		return err
	}

	t := traverson.New(resolver, traverson.WithLogger(c.Logger)).StartWith(startURL)
	for _, follow := range follows {
		t = t.FollowWith(follow, nil, vars)
	}

	prog := newProgress(c.Logger)
	count := 0
	err = t.Paginate(ctx, rel, func(ctx context.Context, page *traverson.Traverson) (bool, error) {
		rep, err := page.Representation(ctx)
		if err != nil {
			return false, err
		}
		count++
		printPageSummary(count, rep)
		return maxPages == 0 || count < maxPages, nil
	})
	if err != nil {
		return fmt.Errorf("paginate %s: %w", startURL, err)
	}
	prog.done(fmt.Sprintf("Visited %d pages", count))
	return nil
}

// printPageSummary prints the one-line form of a page: number, self
// href, and embedded counts.
func printPageSummary(n int, rep hal.Representation) {
	self := "(no self link)"
	if link, ok := rep.Links().LinkBy(hal.RelSelf); ok {
		self = link.Href
	}

	summary := ""
	for _, rel := range rep.Embedded().Rels() {
		if summary != "" {
			summary += ", "
		}
		summary += fmt.Sprintf("%d %s", len(rep.Embedded().ItemsBy(rel)), rel)
	}
	if summary == "" {
		summary = "nothing embedded"
	}

	printInfo("page %s  %s  %s",
		StyleHighlight.Render(fmt.Sprintf("%d", n)),
		StyleLink.Render(self),
		StyleDim.Render(summary))
}
