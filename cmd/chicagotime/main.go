package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/assurrussa/chicagotime/internal/app"
	"github.com/assurrussa/chicagotime/internal/config"
	"github.com/assurrussa/chicagotime/internal/logging"
	"github.com/assurrussa/chicagotime/internal/metrics"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "chicagotime: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.FromEnvironment()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	logger.Debug().
		Str("zone", cfg.Zone).
		Str("format", cfg.Format).
		Strs("sinks", cfg.Sinks).
		Bool("prompt", cfg.Prompt).
		Msg("starting")

	err = app.Run(ctx, cfg,
		app.WithLogger(logger),
		app.WithObserver(m),
	)

	if snapErr := metrics.LogSnapshot(reg, logger); snapErr != nil {
		logger.Warn().Err(snapErr).Msg("gather metrics")
	}
	return err
}
