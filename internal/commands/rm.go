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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	byID bool
}

// SetByID sets the --id flag (for testing).
func (c *RmCmd) SetByID(byID bool) {
	c.byID = byID
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "tasklist rm [--id] <ref>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.byID, "id", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args, c.byID)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	s := session.New(svc, cfg.Logger)

	// An explicit ID goes straight to the server; there is no local guard.
	id := ref.ID
	if !ref.ByID {
		if err := s.Load(ctx); err != nil {
			return reportFailure(errOut, s, err)
		}
		task, err := findTask(s.State().Tasks, ref)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		id = task.ID
	}

	if err := s.Delete(ctx, id); err != nil {
		return reportFailure(errOut, s, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
