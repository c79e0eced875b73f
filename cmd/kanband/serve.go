// ABOUTME: The serve subcommand: opens the board, starts the HTTP API, and shuts down on SIGINT/SIGTERM.
// ABOUTME: Telemetry is initialized first and flushed last so every board span is exported.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/kanban/server"
	"github.com/2389-research/kanban/telemetry"
	"github.com/2389-research/kanban/web"
)

const (
	serviceName     = "kanband"
	boardTracer     = "github.com/2389-research/kanban/board"
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, c.cfg)
		},
	}
	f := cmd.Flags()
	f.String("bind", "", "listen address (default: 127.0.0.1:7780)")
	f.Bool("allow-remote", false, "allow binding to a non-loopback address")
	f.Bool("otel", false, "enable OpenTelemetry tracing")
	f.Bool("otel-stdout", false, "write spans to stdout instead of OTLP")
	_ = c.v.BindPFlag("bind", f.Lookup("bind"))
	_ = c.v.BindPFlag("allow_remote", f.Lookup("allow-remote"))
	_ = c.v.BindPFlag("telemetry.enabled", f.Lookup("otel"))
	_ = c.v.BindPFlag("telemetry.stdout", f.Lookup("otel-stdout"))
	return cmd
}

func runServe(ctx context.Context, cfg *server.Config) error {
	tp, err := telemetry.Init(ctx, telemetrySettings(cfg), serviceName, version)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Printf("component=cli action=telemetry_shutdown_failed err=%v", err)
		}
	}()

	b, closer, err := server.OpenBoard(cfg, telemetry.Tracer(boardTracer))
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Printf("component=cli action=store_close_failed err=%v", err)
		}
	}()

	srv, err := web.NewServer(b, web.ServerConfig{Addr: cfg.Bind, Version: version})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Printf("component=cli action=listening addr=%s store=%s", srv.Addr(), cfg.Store)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("component=cli action=shutting_down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func telemetrySettings(cfg *server.Config) telemetry.Settings {
	return telemetry.Settings{
		Enabled:      cfg.Telemetry.Enabled,
		Stdout:       cfg.Telemetry.Stdout,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
	}
}
