// Package nodelink draws laid-out connection graphs as node-link diagrams.
//
// # SVG
//
// [SVG] reproduces the live map view: a dark background, one line per
// connection colored by category with the remaining time at its midpoint,
// and one ball per zone colored by zone type with the tier inside and the
// name underneath. Home zones get a ring instead of a tier label.
//
//	snap := w.Snapshot()
//	svg := nodelink.SVG(snap, nodelink.Options{Now: time.Now()})
//
// # Graphviz
//
// [ToDOT] emits an undirected DOT graph whose nodes are pinned to the
// computed positions, so neato keeps the layout as is. [Render] turns the
// DOT source into SVG or PNG in process:
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	png, err := nodelink.Render(ctx, dot, nodelink.FormatPNG)
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly; no system install is needed.
package nodelink
