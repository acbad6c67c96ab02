package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/devserver"
	"github.com/vango-dev/reactor/pkg/reactive"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr    string
		dev     bool
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live dev server",
		Long: `Start a server that renders the demo app per websocket session and
streams the resulting DOM mutations to the browser.

Examples:
  reactor serve
  reactor serve --addr=:8080 --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("dev") {
				cfg.DevMode = dev
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Metrics.Enabled = metrics
			}
			if cmd.Flags().Changed("tracing") {
				cfg.Tracing.Enabled = tracing
			}

			logger := newLogger(cfg)
			reactive.SetLogger(logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := devserver.New(cfg, devserver.WithLogger(logger))
			success("Serving on http://localhost%s", cfg.Addr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable dev mode")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "Serve Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Emit an OpenTelemetry span per flush")

	return cmd
}
