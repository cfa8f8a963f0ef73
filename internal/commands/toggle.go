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
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command. It flips a task between open
// and completed.
type ToggleCmd struct {
	byID bool
}

// SetByID sets the --id flag (for testing).
func (c *ToggleCmd) SetByID(byID bool) {
	c.byID = byID
}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string      { return "tasklist toggle [--id] <ref>" }
func (c *ToggleCmd) NeedsService() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.byID, "id", false, "")
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args, c.byID)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// The current completed flag is needed to invert it, so load first
	s := session.New(svc, cfg.Logger)
	if err := s.Load(ctx); err != nil {
		return reportFailure(errOut, s, err)
	}

	task, err := findTask(s.State().Tasks, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := s.Toggle(ctx, task); err != nil {
		return reportFailure(errOut, s, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
