// Package cli parses the command line and runs the selected command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// A bare invocation lists the tasks.
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Common flags
	var configDir string
	var baseURL string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&baseURL, "base-url", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Parse flags
	if err := fs.Parse(args); err != nil {
		// Handle specific error types
		errStr := err.Error()

		// Check for missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return exitcode.UserError
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Defaults < config.toml < environment < flags
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.SetLogger(errOut, debug)
	cfg.Logger.Debug("dispatch", "command", cmd.Name(), "backend", cfg.Backend, "base_url", cfg.BaseURL)

	var svc service.Service
	if cmd.NeedsService() {
		if d.factory != nil {
			svc, err = d.factory(ctx, cfg)
			if err != nil {
				if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth") {
					fmt.Fprintf(errOut, "error: auth error: %s\n", err)
					return exitcode.AuthError
				}
				fmt.Fprintf(errOut, "error: backend error: %s\n", err)
				return exitcode.BackendError
			}
		} else if code := preflight(cfg, errOut); code != exitcode.Success {
			return code
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// preflight reports missing credentials without building a service. It runs
// only when no factory is configured.
func preflight(cfg *config.Config, errOut io.Writer) int {
	if cfg.Backend != config.BackendGoogle {
		return exitcode.Success
	}
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
		return exitcode.AuthError
	}
	if !cfg.HasToken() {
		fmt.Fprintf(errOut, "error: not logged in (run: %s login)\n", config.AppName)
		return exitcode.AuthError
	}
	return exitcode.Success
}
