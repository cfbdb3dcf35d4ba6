package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/config"
	"github.com/lumen-dev/lumen/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port    int
		host    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with live reload.

The server serves the public directory and page fragments, falls
back to the app shell for client-routed paths, and reloads
connected browsers when watched files change.

Examples:
  lumen dev
  lumen dev --port=8080
  lumen dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host, verbose)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from lumen.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from lumen.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request")

	return cmd
}

func runDev(port int, host string, verbose bool) error {
	// A .env next to the config supplies local LUMEN_* overrides.
	_ = godotenv.Load()

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	server, err := dev.NewServer(cfg, log)
	if err != nil {
		return err
	}

	printBanner()
	info("dev server: %s", cfg.DevURL())
	if cfg.Dev.LiveReload {
		info("live reload: watching %v", cfg.Dev.Watch)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

// loadProjectConfig finds and loads the nearest project configuration.
func loadProjectConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return config.Load(root)
}
