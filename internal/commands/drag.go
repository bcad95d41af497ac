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
	Register(&DragCmd{})
	Register(&DropCmd{})
	Register(&ReleaseCmd{})
	Register(&MoveCmd{})
}

// DragCmd picks a task up. The cursor is persisted, so a later drop works
// from another invocation.
type DragCmd struct{}

func (c *DragCmd) Name() string      { return "drag" }
func (c *DragCmd) Aliases() []string { return []string{"pick"} }
func (c *DragCmd) Synopsis() string  { return "Start dragging a task" }
func (c *DragCmd) Usage() string     { return "taskboard drag [common flags] <ref>" }
func (c *DragCmd) NeedsStore() bool  { return true }

func (c *DragCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DragCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	task, err := lookupTask(st, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	st.SetDraggingTaskID(task.ID)
	printOK(cfg, out)
	return exitcode.Success
}

// DropCmd drops the dragged task onto a column.
type DropCmd struct{}

func (c *DropCmd) Name() string      { return "drop" }
func (c *DropCmd) Aliases() []string { return nil }
func (c *DropCmd) Synopsis() string  { return "Drop the dragged task onto a column" }
func (c *DropCmd) Usage() string     { return "taskboard drop [common flags] <status>" }
func (c *DropCmd) NeedsStore() bool  { return true }

func (c *DropCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DropCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: status required")
		return exitcode.UserError
	}
	status, err := ParseStatus(cfg, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, ok := st.DraggingTaskID(); !ok {
		if !cfg.Quiet {
			fmt.Fprintln(out, "nothing to drop")
		}
		return exitcode.Success
	}
	st.OnTaskDrop(status)
	printOK(cfg, out)
	return exitcode.Success
}

// ReleaseCmd cancels a drag.
type ReleaseCmd struct{}

func (c *ReleaseCmd) Name() string      { return "release" }
func (c *ReleaseCmd) Aliases() []string { return []string{"cancel"} }
func (c *ReleaseCmd) Synopsis() string  { return "Cancel the current drag" }
func (c *ReleaseCmd) Usage() string     { return "taskboard release [common flags]" }
func (c *ReleaseCmd) NeedsStore() bool  { return true }

func (c *ReleaseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReleaseCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	st.RemoveDraggingTaskID()
	printOK(cfg, out)
	return exitcode.Success
}

// MoveCmd drags and drops a task in one step.
type MoveCmd struct{}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task to a column" }
func (c *MoveCmd) Usage() string     { return "taskboard move [common flags] <ref> <status>" }
func (c *MoveCmd) NeedsStore() bool  { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: task reference and status required")
		return exitcode.UserError
	}
	task, err := lookupTask(st, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	status, err := ParseStatus(cfg, args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	st.SetDraggingTaskID(task.ID)
	st.OnTaskDrop(status)
	printOK(cfg, out)
	return exitcode.Success
}
