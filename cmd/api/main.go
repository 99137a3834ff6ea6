package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"moringadesk/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve HTTP until SIGINT or SIGTERM.
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app, err := bootstrap.BuildAPI()
	if err != nil {
		slog.Error("api bootstrap failed", "event", "api_bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("api shutdown failed", "event", "api_close_failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		slog.Error("api stopped with error", "event", "api_run_failed", "error", err)
		stop()
		_ = app.Close()
		os.Exit(1)
	}
}
