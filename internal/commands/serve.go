package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/memserver"
	"tasklist/internal/service"
)

// DefaultServeAddr is where `tasklist serve` listens unless --addr is given.
const DefaultServeAddr = "localhost:8080"

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the in-memory task server.
type ServeCmd struct {
	addr   string
	seqIDs bool
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Serve an in-memory task collection" }
func (c *ServeCmd) Usage() string      { return "tasklist serve [--addr <host:port>] [--seq-ids]" }
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", DefaultServeAddr, "")
	fs.BoolVar(&c.seqIDs, "seq-ids", false, "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	level := slog.LevelInfo
	switch {
	case cfg.Debug:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	var ids memserver.IDFunc
	if c.seqIDs {
		ids = memserver.SequentialIDs()
	}
	srv := memserver.New(memserver.NewStore(ids), logger)

	logger.Info("serving tasks", "addr", c.addr)
	if err := srv.ListenAndServe(ctx, c.addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
