package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/taskstore"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskboard help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskboard                                        Show the board
  taskboard board [common flags]
  taskboard add [common flags] [--status <status>] <title...>
  taskboard drag [common flags] <ref>              Start dragging a task
  taskboard drop [common flags] <status>           Drop the dragged task onto a column
  taskboard release [common flags]                 Cancel the current drag
  taskboard move [common flags] <ref> <status>
  taskboard column [common flags] <status>
  taskboard count [common flags]
  taskboard inspect [common flags]                 Print the persisted state
  taskboard replay [common flags] <file>           Apply a YAML action script
  taskboard reset [common flags]                   Restore the initial board
  taskboard watch [common flags]                   Follow changes (file backend)
  taskboard login [common flags]
  taskboard logout [common flags]
  taskboard help
  taskboard version

A <ref> is a task id or a unique, case-insensitive id prefix.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
