package cli

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/world"
)

// addCommand creates the "add" command.
func (c *CLI) addCommand() *cobra.Command {
	var (
		category string
		hours    int
		minutes  int
	)

	cmd := &cobra.Command{
		Use:   "add <from> <to>",
		Short: "Add or replace a connection between two zones",
		Long: `Add a connection between two zones that expires after the given duration.

An existing connection between the same two zones is replaced. Royal
connections always last 24 hours.`,
		Example: `  zonelink add "Thetford" "Setent-Qintis" --category blue --hours 3 --minutes 20
  zonelink add Lymhurst Everwinter-Expanse -c royal`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			e, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := world.ValidateConnection(e.world.Catalog(), args[0], args[1], category, hours, minutes); err != nil {
				return err
			}
			if graph.Category(category).Exempt() && cmd.Flags().Changed("hours") {
				printWarning(out, "%s connections always last %s", category, world.RoyalDuration)
			}

			edge, err := e.world.AddConnection(ctx, args[0], args[1], graph.Category(category), hours, minutes)
			if err != nil {
				return fmt.Errorf("save connection: %w", err)
			}
			if edge == nil {
				return zerrors.New(zerrors.ErrCodeInvalidInput, "connection rejected")
			}

			printSuccess(out, "Connected %s %s %s", edge.Start, iconLink, edge.End)
			printKeyValue(out, "Category", string(edge.Category))
			printKeyValue(out, "Expires in", world.TimeLeft(edge.Expiry, time.Now()))
			printStats(out, e.world.Snapshot())
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(graph.Green), "connection category: "+strings.Join(graph.CategoryNames(), ", "))
	cmd.Flags().IntVar(&hours, "hours", 0, "hours until the connection expires")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "minutes until the connection expires")
	_ = cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return graph.CategoryNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// deleteCommand creates the "delete" command.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <zone>",
		Aliases: []string{"rm"},
		Short:   "Remove a zone and every connection touching it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			removed := len(e.world.EdgesOf(args[0]))
			if removed == 0 {
				return zerrors.New(zerrors.ErrCodeNotFound, "zone %q is not on the map", args[0])
			}
			if err := e.world.DeleteNode(ctx, args[0]); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}

			printSuccess(cmd.OutOrStdout(), "Removed %s and %d connections", args[0], removed)
			return nil
		},
	}
}

// sweepCommand creates the "sweep" command.
func (c *CLI) sweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired connections from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.world.Sweep(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}

			out := cmd.OutOrStdout()
			if n == 0 {
				printInfo(out, "Nothing expired")
				return nil
			}
			printSuccess(out, "Removed %d expired connections", n)
			return nil
		},
	}
}

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	var components bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List connections and their remaining time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			e, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			edges := e.world.Edges()
			if len(edges) == 0 {
				printInfo(out, "No connections")
				printNextStep(out, "Add one with", appName+" add <from> <to>")
				return nil
			}

			if components {
				printComponents(out, e.world.Components())
				return nil
			}

			fmt.Fprintln(out, edgeTable(edges, time.Now(), -1))
			printStats(out, e.world.Snapshot())
			return nil
		},
	}

	cmd.Flags().BoolVar(&components, "components", false, "group zones into connected components instead")

	return cmd
}

func printComponents(w io.Writer, comps [][]string) {
	for i, comp := range comps {
		fmt.Fprintf(w, "%s %s\n",
			StyleHighlight.Render(fmt.Sprintf("%2d.", i+1)),
			StyleValue.Render(strings.Join(comp, ", ")))
	}
	printDetail(w, "%d components", len(comps))
}

// sortByExpiry orders edges soonest-expiring first, by ID on ties.
func sortByExpiry(edges []graph.Edge) {
	slices.SortFunc(edges, func(a, b graph.Edge) int {
		if c := a.Expiry.Compare(b.Expiry); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// edgeTable renders edges as a table, soonest-expiring first. The row at
// index cursor is highlighted; pass -1 for none.
func edgeTable(edges []graph.Edge, now time.Time, cursor int) string {
	sortByExpiry(edges)

	rows := make([][]string, len(edges))
	for i, e := range edges {
		left := world.TimeLeft(e.Expiry, now)
		if e.Category.Exempt() {
			left = "-"
		}
		rows[i] = []string{e.Start, e.End, string(e.Category), left}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("From", "To", "Category", "Time left").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == cursor {
				base = base.Bold(true)
			}
			if col == 2 && row >= 0 && row < len(edges) {
				return base.Inherit(categoryStyle(edges[row].Category))
			}
			if row == cursor {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}
