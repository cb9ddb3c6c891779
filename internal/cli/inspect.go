package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waypost-dev/waypost/pkg/hal"
)

// inspectCommand creates the inspect command for local HAL documents.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Decode and pretty-print a local HAL+JSON document",
		Long: `Decode and pretty-print a local HAL+JSON document.

The document is fully decoded, which validates its structure: link
objects must carry an href, a declared "templated" flag must match the
href, and a relation type must not mix single links with link arrays.
Decoding failures are reported with the offending detail.`,
		Example: `  waypost inspect examples/bookshop.json
  waypost inspect response.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "re-encode the decoded document as HAL+JSON")

	return cmd
}

func runInspect(path string, asJSON bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	rep, err := hal.Parse(data)
	if err != nil {
		return fmt.Errorf("%s is not a valid HAL document: %w", path, err)
	}

	if asJSON {
		return printJSON(rep)
	}
	printSuccess("%s is a valid HAL document", path)
	printNewline()
	printRepresentation(rep)
	return nil
}
