package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonelink/pkg/config"
	zerrors "github.com/matzehuels/zonelink/pkg/errors"
)

// configCommand creates the config file command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

func (c *CLI) configPath() string {
	if c.flags.config != "" {
		return c.flags.config
	}
	return config.DefaultPath()
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Config written")
			printFile(out, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}

// settableKeys lists the keys "config set" accepts.
var settableKeys = []string{"layout.distance", "layout.scale", "layout.seed", "viewport.width", "viewport.height", "store.backend", "zones.url", "zones.file", "server.addr"}

// configSetCommand creates the "config set" subcommand.
func (c *CLI) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting in the config file",
		Long:      "Change one setting in the config file. Keys: " + fmt.Sprint(settableKeys),
		Args:      cobra.ExactArgs(2),
		ValidArgs: settableKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath()
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "%s = %s", args[0], args[1])
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath())
			return nil
		},
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	if !slices.Contains(settableKeys, key) {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "unknown key %q", key)
	}

	var err error
	switch key {
	case "layout.distance":
		cfg.Layout.Distance, err = strconv.ParseFloat(value, 64)
	case "layout.scale":
		cfg.Layout.Scale, err = strconv.ParseFloat(value, 64)
	case "layout.seed":
		cfg.Layout.Seed, err = strconv.ParseUint(value, 10, 64)
	case "viewport.width":
		cfg.Viewport.Width, err = strconv.ParseFloat(value, 64)
	case "viewport.height":
		cfg.Viewport.Height, err = strconv.ParseFloat(value, 64)
	case "store.backend":
		cfg.Store.Backend = value
	case "zones.url":
		cfg.Zones.URL = value
	case "zones.file":
		cfg.Zones.File = value
	case "server.addr":
		cfg.Server.Addr = value
	}
	if numErr := (*strconv.NumError)(nil); errors.As(err, &numErr) {
		return zerrors.Wrap(zerrors.ErrCodeInvalidInput, err, "%s: %q is not a valid number", key, value)
	}
	return err
}
