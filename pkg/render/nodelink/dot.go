package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/world"
)

// Output formats accepted by [Render].
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// Formats lists the formats accepted by [Render].
var Formats = []string{FormatSVG, FormatPNG, FormatDOT}

// Positions are in points; node sizes are in inches.
const pointsPerInch = 72.0

// ToDOT converts a snapshot to an undirected Graphviz graph. Every node is
// pinned to its position (y flipped, since Graphviz grows upwards).
func ToDOT(s graph.Snapshot, opts Options) string {
	opts = opts.withDefaults(s)
	bg := HexColor(Background, "black")

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontname=\"Arial Bold\", fontcolor=white, color=black, penwidth=0.33];\n")
	buf.WriteString("  edge [fontname=\"Arial Bold\", fontcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		d := 2 * n.Radius * opts.Scale / pointsPerInch
		attrs := []string{
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, flipY(n.Y)),
			fmt.Sprintf("width=%.3f", d),
			fmt.Sprintf("fillcolor=%q", HexColor(ZoneColor(n.Color), "gray")),
			fmt.Sprintf("xlabel=%q", n.Name),
			fmt.Sprintf("fontsize=%.1f", 12*opts.Scale),
		}
		switch opts.homeIndex(n.Name) {
		case 0:
			attrs = append(attrs, `label=""`, "shape=doublecircle", fmt.Sprintf("color=%q", homeRing))
		case 1:
			attrs = append(attrs, `label=""`, "shape=doublecircle", fmt.Sprintf("color=%q", HexColor(blackHomeRing, "gold")))
		default:
			attrs = append(attrs, fmt.Sprintf("label=%q", n.Tier))
		}
		if n.Name == opts.Selected {
			attrs = append(attrs, "color=white", "penwidth=1.25")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		attrs := []string{fmt.Sprintf("color=%q", HexColor(CategoryColor(e.Category), "gray"))}
		if !e.Category.Exempt() {
			attrs = append(attrs, fmt.Sprintf("label=%q", world.TimeLeft(e.Expiry, opts.Now)))
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Start, e.End, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// flipY negates y without producing a negative zero.
func flipY(y float64) float64 { return 0 - y }

// Render lays out DOT source with neato and encodes it as format. FormatDOT
// returns the source unchanged.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatDOT:
		return []byte(dot), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
