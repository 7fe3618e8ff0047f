package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/inspect"
	"github.com/vango-dev/vcommit/pkg/scenario"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port     int
		host     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve <scenario>",
		Short: "Replay a scenario behind the inspect server",
		Long: `Replay a scenario while serving its passes over HTTP.

The server keeps running after the last pass until interrupted.
Clients connecting to /ws receive every pass's frames, earlier
passes first.

Endpoints:
  /            latest container markup
  /passes      pass summaries
  /passes/{n}  one pass with mutations and log
  /metrics     Prometheus metrics
  /ws          binary frame stream

Examples:
  vcommit serve list.yaml
  vcommit serve list.yaml --port=8080 --interval=1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("E200").WithSuggestion("vcommit serve <scenario>")
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Inspect.Port = port
			}
			if host != "" {
				cfg.Inspect.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			hub := inspect.NewHub(logger)
			srv := inspect.NewServer(hub,
				inspect.WithLogger(logger),
				inspect.WithRegistry(reg),
				inspect.WithNamespace(cfg.Metrics.Namespace),
			)

			errc := make(chan error, 1)
			go func() {
				errc <- srv.ListenAndServe(ctx, cfg.InspectAddress())
			}()

			out := cmd.OutOrStdout()
			success(out, "Inspecting at http://%s", cfg.InspectAddress())

			observer := func(pr *scenario.PassResult) {
				hub.Publish(pr)
				if interval > 0 {
					select {
					case <-time.After(interval):
					case <-ctx.Done():
					}
				}
			}
			res, err := replay(ctx, cfg, logger, args[0], newMetrics(cfg, reg), scenario.WithObserver(observer))
			if err != nil {
				logger.Error("scenario failed", "error", err)
			} else {
				printResult(out, res)
				info(out, "Press Ctrl+C to stop")
			}

			return <-errc
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (default from vcommit.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from vcommit.json)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Pause between passes")

	return cmd
}
