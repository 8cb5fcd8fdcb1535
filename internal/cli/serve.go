package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonelink/internal/server"
	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/observability"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		tick time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map over HTTP",
		Long: `Serve the JSON API, the rendered diagram and Prometheus metrics.

While serving, expired connections are swept every tick and changes made
through the store by other processes replace the local graph.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tick") && tick <= 0 {
				return zerrors.New(zerrors.ErrCodeInvalidInput, "tick must be positive")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			logger := loggerFromContext(ctx)

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := observability.NewPrometheus(reg)
			observability.Register(metrics)
			defer observability.Reset()

			e, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			if tick == 0 {
				tick = e.cfg.Server.Tick
			}

			runErr := make(chan error, 1)
			go func() { runErr <- e.world.Run(ctx, tick) }()

			srv := server.New(e.world, server.Options{
				Logger:   logger,
				Metrics:  metrics,
				Gatherer: reg,
			})
			err = srv.ListenAndServe(ctx, addr)
			cancel()
			if rerr := <-runErr; err == nil {
				err = rerr
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&tick, "tick", 0, "expiry sweep interval (default from config)")

	return cmd
}
