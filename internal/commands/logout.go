package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd removes the stored token.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Remove stored credentials" }
func (c *LogoutCmd) Usage() string      { return "tasklist logout [common flags]" }
func (c *LogoutCmd) NeedsService() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !cfg.HasToken() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}
	cfg.Logger.Debug("removed token", "path", cfg.TokenPath())

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
