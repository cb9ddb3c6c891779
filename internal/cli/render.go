package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/waypost-dev/waypost/pkg/hal"
)

// printJSON writes a representation to stdout as indented HAL+JSON.
func printJSON(rep hal.Representation) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode representation: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(os.Stdout)
	return err
}

// printRepresentation renders a representation for humans: attributes,
// then a links table, then an embedded summary.
func printRepresentation(rep hal.Representation) {
	printAttributes(rep)
	printLinks(rep.Links())
	printEmbedded(rep.Embedded())
}

func printAttributes(rep hal.Representation) {
	names := rep.AttributeNames()
	if len(names) == 0 {
		return
	}
	for _, name := range names {
		raw, _ := rep.Attribute(name)
		printKeyValue(name, compactJSON(raw))
	}
	printNewline()
}

func printLinks(links hal.Links) {
	if links.IsEmpty() {
		printDetail("no links")
		return
	}

	rows := [][]string{}
	for _, rel := range links.Rels() {
		for _, link := range links.LinksBy(rel) {
			note := link.Title
			if link.Templated() {
				note = "templated"
				if link.Title != "" {
					note = link.Title + " (templated)"
				}
			}
			rows = append(rows, []string{rel, link.Href, note})
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Rel", "Href", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return styleRel
			case col == 1:
				return StyleValue
			default:
				return StyleDim
			}
		})
	fmt.Println(t.Render())
}

func printEmbedded(embedded hal.Embedded) {
	if embedded.IsEmpty() {
		return
	}
	printNewline()
	for _, rel := range embedded.Rels() {
		items := embedded.ItemsBy(rel)
		printInfo("%s %s", styleRel.Render(rel), StyleDim.Render(fmt.Sprintf("(%d embedded)", len(items))))
		for _, item := range items {
			printDetail("%s", embeddedSummary(item))
		}
	}
}

// embeddedSummary is the one-line form of an embedded item: its title
// when it has one, else its self href, else its attribute names.
func embeddedSummary(item hal.Representation) string {
	if title, err := hal.AttributeAs[string](item, "title"); err == nil && title != "" {
		return title
	}
	if self, ok := item.Links().LinkBy(hal.RelSelf); ok {
		return self.Href
	}
	return fmt.Sprintf("%v", item.AttributeNames())
}

// compactJSON renders a raw attribute value on one line, without the
// quotes around plain strings.
func compactJSON(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return string(raw)
	}
	return out.String()
}
