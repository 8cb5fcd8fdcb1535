package nodelink

import (
	"fmt"

	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/zones"
)

// Background is the canvas fill.
const Background = "rgb(60, 43, 61)"

// CategoryColor returns the line color for a connection category, or ""
// for unknown categories.
func CategoryColor(c graph.Category) string {
	switch c {
	case graph.Green:
		return "rgb(0, 128, 0)"
	case graph.Blue:
		return "rgb(0, 0, 255)"
	case graph.Gold:
		return "rgb(214, 157, 0)"
	case graph.Royal:
		return "black"
	default:
		return ""
	}
}

// ZoneColor returns the ball color for a zone color category, or "" for
// unknown ones.
func ZoneColor(color string) string {
	switch color {
	case zones.ColorBlue, zones.ColorCity:
		return "rgb(100, 149, 237)"
	case zones.ColorRed:
		return "rgb(219, 112, 147)"
	case zones.ColorYellow:
		return "rgb(218, 165, 32)"
	case zones.ColorBlack:
		return "black"
	case zones.ColorRoad:
		return "rgb(64, 224, 208)"
	case zones.ColorRoadHO:
		return "rgb(102, 51, 153)"
	default:
		return ""
	}
}

// HexColor converts "rgb(r, g, b)" to "#rrggbb" for Graphviz and terminals. Named colors
// pass through; "" becomes fallback.
func HexColor(css, fallback string) string {
	if css == "" {
		return fallback
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(css, "rgb(%d, %d, %d)", &r, &g, &b); err != nil {
		return css
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
