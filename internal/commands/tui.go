package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
	"tasklist/internal/session"
	"tasklist/internal/tui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiCmd opens the interactive task view.
type TuiCmd struct {
	in io.Reader
}

// SetInput replaces the terminal input (for testing). nil means stdin.
func (c *TuiCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *TuiCmd) Name() string       { return "tui" }
func (c *TuiCmd) Aliases() []string  { return []string{"ui"} }
func (c *TuiCmd) Synopsis() string   { return "Interactive task view" }
func (c *TuiCmd) Usage() string      { return "tasklist tui [common flags]" }
func (c *TuiCmd) NeedsService() bool { return true }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TuiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	s := session.New(svc, cfg.Logger)
	if err := tui.Run(ctx, s, c.in, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
