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
	Register(&HelpCmd{})
}

// HelpCmd prints usage.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "tasklist help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasklist                                  List all tasks
  tasklist list [common flags] [--ids]      List all tasks
  tasklist add [common flags] [--print-id] <title...>
  tasklist create [common flags] [--print-id] <title...>
  tasklist toggle [common flags] [--id] <ref>
  tasklist done [common flags] [--id] <ref>
  tasklist rm [common flags] [--id] <ref>
  tasklist tui [common flags]               Interactive task view
  tasklist serve [common flags] [--addr <host:port>] [--seq-ids]
  tasklist login [common flags] [--token <token>]
  tasklist logout [common flags]
  tasklist help
  tasklist version

A <ref> is the task number shown by list, or the task ID with --id.

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override the task API base URL
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
