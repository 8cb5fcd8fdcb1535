package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonelink/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "zonelink"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags globalFlags
}

// globalFlags are the persistent flags that override the config file.
type globalFlags struct {
	config    string
	backend   string
	dataDir   string
	zonesFile string
	seed      uint64
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Zonelink maps temporary connections between zones",
		Long:          `Zonelink keeps a graph of expiring connections between named zones, lays it out on a plane with a randomized radial placement, and renders, serves or watches the result.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.config, "config", "", "config file (default "+defaultConfigHint()+")")
	pf.StringVar(&c.flags.backend, "store", "", "store backend: memory, file, redis, mongo")
	pf.StringVar(&c.flags.dataDir, "data-dir", "", "directory of the file store")
	pf.StringVar(&c.flags.zonesFile, "zones-file", "", "load the zone catalog from a local JSON file")
	pf.Uint64Var(&c.flags.seed, "seed", 0, "layout random seed (0 = random)")

	// Register all subcommands
	root.AddCommand(c.addCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.zonesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func defaultConfigHint() string {
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}
