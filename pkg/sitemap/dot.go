package sitemap

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/waypost-dev/waypost/pkg/errors"
)

// Format selects the Render output encoding.
type Format string

// Supported render formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatSVG, FormatPNG, FormatDOT:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidArgument, "unsupported format %q (allowed: svg, png, dot)", s)
	}
}

// DOTOptions configures sitemap rendering.
type DOTOptions struct {
	// Detailed includes each node's relation types in its label.
	// When false, only the title or URL is shown.
	Detailed bool
}

// ToDOT converts a crawled graph to Graphviz DOT format. The resulting DOT
// string can be rendered with [Render].
func ToDOT(g *Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph sitemap {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, fmtLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Rel)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n Node, detailed bool) string {
	label := n.Title
	if label == "" {
		label = displayURL(n.ID)
	}
	if detailed && len(n.Rels) > 0 {
		label += "\n" + strings.Join(n.Rels, ", ")
	}
	return label
}

// displayURL trims the scheme so node labels stay short.
func displayURL(u string) string {
	if _, rest, ok := strings.Cut(u, "://"); ok {
		return rest
	}
	return u
}

// Render renders a DOT graph in the given format using Graphviz. FormatDOT
// returns the DOT source unchanged.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unsupported format %q (allowed: svg, png, dot)", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "cannot initialize graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "cannot parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "cannot render %s", format)
	}
	return buf.Bytes(), nil
}
