// Package main is the entry point for the tasklist CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tasklist/internal/backend/googletasks"
	"tasklist/internal/backend/rest"
	"tasklist/internal/cli"
	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/service"
)

// newService builds the backend selected in config.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if cfg.Backend == config.BackendGoogle {
		return googletasks.New(ctx, cfg)
	}
	return rest.New(ctx, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
