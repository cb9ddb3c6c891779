package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waypost-dev/waypost/pkg/hal"
	"github.com/waypost-dev/waypost/pkg/traverson"
)

// getCommand creates the get command for traversing an API.
func (c *CLI) getCommand() *cobra.Command {
	var (
		follows   []string
		varPairs  []string
		all       bool
		asJSON    bool
		linksOnly bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Traverse an API and print the resource it ends on",
		Long: `Traverse an API and print the resource it ends on.

The traversal starts at URL and follows each --follow relation type in
order. Relation types may be curied ("ws:books") or expanded; templated
links are expanded with the --var variables. Without --follow the start
resource itself is printed.

With --all, every link matching the final relation type is fetched and
printed, not just the first.`,
		Example: `  waypost get http://localhost:8080/api
  waypost get http://localhost:8080/api --follow ws:books --var page=2
  waypost get http://localhost:8080/api --follow ws:books --follow next --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := parseVars(varPairs)
			if err != nil {
				return err
			}
			return c.runGet(cmd.Context(), getParams{
				url:       args[0],
				follows:   follows,
				vars:      vars,
				all:       all,
				asJSON:    asJSON,
				linksOnly: linksOnly,
				noCache:   noCache,
			})
		},
	}

	cmd.Flags().StringArrayVarP(&follows, "follow", "f", nil, "relation type to follow (repeatable, in order)")
	cmd.Flags().StringArrayVar(&varPairs, "var", nil, "template variable as key=value (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every link matching the final relation type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw HAL+JSON document")
	cmd.Flags().BoolVar(&linksOnly, "links-only", false, "print only the links table")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type getParams struct {
	url       string
	follows   []string
	vars      traverson.Vars
	all       bool
	asJSON    bool
	linksOnly bool
	noCache   bool
}

func (c *CLI) runGet(ctx context.Context, params getParams) error {
	startURL, err := c.resolveURL(params.url)
	if err != nil {
		return err
	}
	resolver, err := c.newResolver(params.noCache)
	if err != nil {
		return err
	}

	t := traverson.New(resolver, traverson.WithLogger(c.Logger)).StartWith(startURL)
	for _, rel := range params.follows {
		t = t.FollowWith(rel, nil, params.vars)
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Fetching %s...", startURL))
	spinner.Start()

	var reps []hal.Representation
	if params.all {
		reps, err = t.Representations(ctx)
	} else {
		var rep hal.Representation
		rep, err = t.Representation(ctx)
		reps = []hal.Representation{rep}
	}
	spinner.Stop()

	if errors.Is(err, traverson.ErrNoResult) {
		printWarning("Nothing matched %q", strings.Join(params.follows, " -> "))
		return nil
	}
	if err != nil {
		return fmt.Errorf("traverse %s: %w", startURL, err)
	}
	if params.all && len(reps) == 0 {
		printWarning("Nothing matched %q", strings.Join(params.follows, " -> "))
		return nil
	}

	for i, rep := range reps {
		if i > 0 {
			printNewline()
		}
		switch {
		case params.asJSON:
			if err := printJSON(rep); err != nil {
				return err
			}
		case params.linksOnly:
			printLinks(rep.Links())
		default:
			printRepresentation(rep)
		}
	}
	return nil
}

// parseVars parses repeated key=value flags into template variables.
func parseVars(pairs []string) (traverson.Vars, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(traverson.Vars, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
