package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/render/nodelink"
)

// layoutCommand creates the "layout" command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		view   viewFlags
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay the map out and write positions as JSON",
		Long: `Lay the stored connections out and write the positioned snapshot as JSON.

The snapshot can be rendered later with "zonelink render --from".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := view.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()

			e, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			view.apply(ctx, e.world)
			snap := e.world.Snapshot()

			if output == "" {
				return graph.WriteSnapshot(snap, cmd.OutOrStdout())
			}
			if err := graph.WriteSnapshotFile(snap, output); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Layout written")
			printFile(out, output)
			printStats(out, snap)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	view.register(cmd)

	return cmd
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // base path; the format is appended as extension
	formats  []string // svg, png, dot
	graphviz bool     // draw SVG through Graphviz instead of the canvas renderer
	from     string   // render a saved snapshot instead of the store
	selected string   // zone drawn with a highlighted outline
	view     viewFlags
}

// renderCommand creates the "render" command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{output: appName}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the map as SVG, PNG or DOT",
		Long: `Draw the laid-out map.

SVG is drawn like the interactive canvas by default: category-colored lines
with time-left labels, zone-colored balls with tiers, and rings around the
home zones. PNG and --graphviz SVG go through Graphviz with every zone
pinned to its computed position.`,
		Example: `  zonelink render -f svg,png -o map
  zonelink layout -o snap.json && zonelink render --from snap.json -f dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if err := opts.view.validate(); err != nil {
				return err
			}
			return c.runRender(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "render SVG with Graphviz")
	cmd.Flags().StringVar(&opts.from, "from", "", "render a snapshot written by the layout command")
	cmd.Flags().StringVar(&opts.selected, "selected", "", "zone to highlight")
	opts.view.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	snap, homes, err := c.renderSnapshot(ctx, opts)
	if err != nil {
		return err
	}
	drawOpts := nodelink.Options{Selected: opts.selected, Scale: opts.view.scale, HomeZones: homes}

	prog := newProgress(logger)
	var paths []string
	for _, format := range opts.formats {
		data, err := renderFormat(ctx, snap, format, opts.graphviz, drawOpts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := opts.output + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	prog.done(fmt.Sprintf("Rendered %d zones", len(snap.Nodes)))

	out := cmd.OutOrStdout()
	printSuccess(out, "Rendered %s", strings.Join(opts.formats, ", "))
	for _, p := range paths {
		printFile(out, p)
	}
	printStats(out, snap)
	return nil
}

// renderSnapshot returns the snapshot to draw and the configured home
// zones, from a file or from the store.
func (c *CLI) renderSnapshot(ctx context.Context, opts *renderOpts) (graph.Snapshot, []string, error) {
	if opts.from != "" {
		cfg, err := c.loadConfig()
		if err != nil {
			return graph.Snapshot{}, nil, err
		}
		snap, err := graph.ReadSnapshotFile(opts.from)
		if err != nil {
			return graph.Snapshot{}, nil, err
		}
		return snap, cfg.Layout.HomeZones, nil
	}

	e, err := c.open(ctx)
	if err != nil {
		return graph.Snapshot{}, nil, err
	}
	defer e.Close()

	opts.view.apply(ctx, e.world)
	return e.world.Snapshot(), e.cfg.Layout.HomeZones, nil
}

func renderFormat(ctx context.Context, snap graph.Snapshot, format string, viaGraphviz bool, opts nodelink.Options) ([]byte, error) {
	if format == nodelink.FormatSVG && !viaGraphviz {
		return nodelink.SVG(snap, opts), nil
	}
	dot := nodelink.ToDOT(snap, opts)
	if format == nodelink.FormatDOT {
		return []byte(dot), nil
	}

	spin := newSpinner(ctx, os.Stderr, "Running Graphviz...")
	spin.Start()
	defer spin.Stop()
	return nodelink.Render(ctx, dot, format)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{nodelink.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(nodelink.Formats, f) {
			return zerrors.New(zerrors.ErrCodeInvalidInput, "unsupported format %q (want one of %s)", f, strings.Join(nodelink.Formats, ", "))
		}
	}
	return nil
}
