package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
	"tasklist/internal/session"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	printID bool
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "tasklist add [--print-id] <title...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.printID, "print-id", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form title; blank titles never reach the server
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	s := session.New(svc, cfg.Logger)
	s.SetNewTitle(title)
	if err := s.Submit(ctx); err != nil {
		return reportFailure(errOut, s, err)
	}

	if c.printID {
		tasks := s.State().Tasks
		fmt.Fprintln(out, tasks[len(tasks)-1].ID)
		return exitcode.Success
	}
	printOK(out, cfg.Quiet)
	return exitcode.Success
}
