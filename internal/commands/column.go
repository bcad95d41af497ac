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
	Register(&ColumnCmd{})
	Register(&CountCmd{})
}

// ColumnCmd lists the tasks in one column. Any status may be queried,
// including ones that are not configured.
type ColumnCmd struct{}

func (c *ColumnCmd) Name() string      { return "column" }
func (c *ColumnCmd) Aliases() []string { return []string{"col"} }
func (c *ColumnCmd) Synopsis() string  { return "List the tasks in a column" }
func (c *ColumnCmd) Usage() string     { return "taskboard column [common flags] <status>" }
func (c *ColumnCmd) NeedsStore() bool  { return true }

func (c *ColumnCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ColumnCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: status required")
		return exitcode.UserError
	}
	dragging, _ := st.DraggingTaskID()
	for _, t := range st.TasksByStatus(taskstore.Status(args[0])) {
		output.FormatTask(out, t, t.ID == dragging)
	}
	return exitcode.Success
}

// CountCmd prints the number of tasks on the board.
type CountCmd struct{}

func (c *CountCmd) Name() string      { return "count" }
func (c *CountCmd) Aliases() []string { return nil }
func (c *CountCmd) Synopsis() string  { return "Print the number of tasks" }
func (c *CountCmd) Usage() string     { return "taskboard count [common flags]" }
func (c *CountCmd) NeedsStore() bool  { return true }

func (c *CountCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CountCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, st.TasksCount())
	return exitcode.Success
}
