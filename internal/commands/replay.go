package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/taskstore"
)

func init() {
	Register(&ReplayCmd{})
}

// ReplayCmd applies a YAML action script to the board.
type ReplayCmd struct{}

func (c *ReplayCmd) Name() string      { return "replay" }
func (c *ReplayCmd) Aliases() []string { return nil }
func (c *ReplayCmd) Synopsis() string  { return "Apply an action script" }
func (c *ReplayCmd) Usage() string     { return "taskboard replay [common flags] <file>" }
func (c *ReplayCmd) NeedsStore() bool  { return true }

func (c *ReplayCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReplayCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: script file required")
		return exitcode.UserError
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	actions, err := taskstore.ParseActions(data)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	for i, a := range actions {
		if err := st.Dispatch(a); err != nil {
			fmt.Fprintf(errOut, "error: action %d: %v\n", i+1, err)
			return exitcode.UserError
		}
		if !cfg.Quiet {
			fmt.Fprintln(out, a.Type)
		}
	}
	return exitcode.Success
}
