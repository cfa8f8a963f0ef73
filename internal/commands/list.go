package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/session"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasklist` (no args) and `tasklist list`.
type ListCmd struct {
	showIDs bool
}

// SetShowIDs sets the --ids flag (for testing).
func (c *ListCmd) SetShowIDs(show bool) {
	c.showIDs = show
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "tasklist list [--ids]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.showIDs, "ids", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	s := session.New(svc, cfg.Logger)
	if err := s.Load(ctx); err != nil {
		return reportFailure(errOut, s, err)
	}

	tasks := s.State().Tasks
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, task := range tasks {
		if c.showIDs {
			output.FormatTaskWithID(out, i+1, task)
		} else {
			output.FormatTask(out, i+1, task)
		}
	}
	return exitcode.Success
}
