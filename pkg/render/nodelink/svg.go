package nodelink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/layout"
	"github.com/matzehuels/zonelink/pkg/world"
)

// Ring colors of the two home zones.
const (
	homeRing      = "white"
	blackHomeRing = "rgb(214, 157, 0)"
)

// Options configures [SVG] and [ToDOT].
type Options struct {
	Now       time.Time // reference for time-left labels; zero means time.Now
	Scale     float64   // drawing scale; zero uses the snapshot's, then 1
	Selected  string    // zone drawn with a highlighted outline
	HomeZones []string  // nil means layout.DefaultHomeZones; [0] home, [1] black-zone home
}

func (o Options) withDefaults(s graph.Snapshot) Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Scale <= 0 {
		o.Scale = s.Scale
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.HomeZones == nil {
		o.HomeZones = layout.DefaultHomeZones
	}
	return o
}

// homeIndex returns the position of name in the home zone list, or -1.
func (o Options) homeIndex(name string) int {
	for i, h := range o.HomeZones {
		if h == name {
			return i
		}
	}
	return -1
}

// SVG draws the snapshot at its viewport size with the origin at the
// center.
func SVG(s graph.Snapshot, opts Options) []byte {
	opts = opts.withDefaults(s)
	w, h := s.Viewport.Width, s.Viewport.Height
	if w <= 0 || h <= 0 {
		w, h = world.DefaultViewport.Width, world.DefaultViewport.Height
	}
	cx, cy := w/2, h/2

	nodes := make(map[string]graph.SnapshotNode, len(s.Nodes))
	for _, n := range s.Nodes {
		nodes[n.Name] = n
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill=%q/>`+"\n", Background)

	buf.WriteString(`  <g class="connections">` + "\n")
	for _, e := range s.Edges {
		a, okA := nodes[e.Start]
		b, okB := nodes[e.End]
		if !okA || !okB {
			continue
		}
		x1, y1 := a.X+cx, a.Y+cy
		x2, y2 := b.X+cx, b.Y+cy
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke=%q stroke-width="1"/>`+"\n",
			x1, y1, x2, y2, CategoryColor(e.Category))
		if !e.Category.Exempt() {
			writeText(&buf, (x1+x2)/2, (y1+y2)/2, world.TimeLeft(e.Expiry, opts.Now), opts.Scale)
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="zones">` + "\n")
	for _, n := range s.Nodes {
		writeBall(&buf, n, n.X+cx, n.Y+cy, opts)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeBall(buf *bytes.Buffer, n graph.SnapshotNode, x, y float64, opts Options) {
	r := n.Radius * opts.Scale
	fmt.Fprintf(buf, `    <g class="zone" id=%q>`+"\n", "zone-"+escape(n.Name))
	fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill=%q/>`+"\n", x, y, r, ZoneColor(n.Color))

	switch opts.homeIndex(n.Name) {
	case 0:
		writeRing(buf, x, y, r*0.6, 2*opts.Scale, homeRing)
	case 1:
		writeRing(buf, x, y, r*0.6, 2*opts.Scale, blackHomeRing)
	default:
		writeText(buf, x, y, n.Tier, opts.Scale)
	}

	if n.Name == opts.Selected {
		writeRing(buf, x, y, r, 1.25, "white")
	} else {
		writeRing(buf, x, y, r, 0.33, "black")
	}

	writeText(buf, x, y+r*2, n.Name, opts.Scale)
	buf.WriteString("    </g>\n")
}

func writeRing(buf *bytes.Buffer, x, y, r, width float64, color string) {
	fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke=%q stroke-width="%.2f"/>`+"\n",
		x, y, r, color, width)
}

func writeText(buf *bytes.Buffer, x, y float64, text string, scale float64) {
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" `+
		`font-family="Arial" font-weight="bold" font-size="%.1f" fill="white" stroke="black" stroke-width="2" paint-order="stroke">%s</text>`+"\n",
		x, y, 12*scale, escape(text))
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
