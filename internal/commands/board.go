package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/taskstore"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd prints every column of the board.
type BoardCmd struct{}

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return []string{"ls"} }
func (c *BoardCmd) Synopsis() string  { return "Show the board" }
func (c *BoardCmd) Usage() string     { return "taskboard board [common flags]" }
func (c *BoardCmd) NeedsStore() bool  { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	output.FormatBoard(out, Statuses(cfg), st.Snapshot())
	return exitcode.Success
}
