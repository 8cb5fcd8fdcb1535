package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonelink/pkg/render/nodelink"
	"github.com/matzehuels/zonelink/pkg/zones"
)

// zonesCommand creates the zone catalog command.
func (c *CLI) zonesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Look up zones in the catalog",
	}

	cmd.AddCommand(c.zonesSearchCommand())
	cmd.AddCommand(c.zonesShowCommand())

	return cmd
}

// zonesSearchCommand creates the "zones search" subcommand.
func (c *CLI) zonesSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find zones whose name contains text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := cat.Search(args[0])
			if len(names) == 0 {
				printInfo(out, "No zone matches %q", args[0])
				return nil
			}
			for _, name := range names {
				z, _ := cat.Resolve(name)
				fmt.Fprintln(out, zoneLine(z, args[0]))
			}
			return nil
		},
	}
}

// zonesShowCommand creates the "zones show" subcommand.
func (c *CLI) zonesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <zone>",
		Short: "Show a zone's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			z, err := cat.MustResolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render(z.Name))
			printKeyValue(out, "Tier", z.Tier)
			printKeyValue(out, "Color", z.Color)
			if z.Type != "" {
				printKeyValue(out, "Type", z.Type)
			}
			if z.IsDeep {
				printKeyValue(out, "Deep", "yes")
			}
			return nil
		},
	}
}

// zoneLine formats a search hit with the matched text highlighted and a
// swatch in the zone's map color.
func zoneLine(z *zones.Zone, query string) string {
	name := z.Name
	if i := strings.Index(strings.ToLower(name), strings.ToLower(query)); i >= 0 && query != "" {
		name = StyleValue.Render(name[:i]) +
			StyleHighlight.Bold(true).Render(name[i:i+len(query)]) +
			StyleValue.Render(name[i+len(query):])
	} else {
		name = StyleValue.Render(name)
	}

	swatch := "●"
	if hex := nodelink.HexColor(nodelink.ZoneColor(z.Color), ""); strings.HasPrefix(hex, "#") {
		swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(swatch)
	}
	return fmt.Sprintf("%s %s %s", swatch, name, StyleDim.Render(z.Tier))
}
