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
	Register(&InspectCmd{})
}

// InspectCmd prints the current state in its persisted form.
type InspectCmd struct{}

func (c *InspectCmd) Name() string      { return "inspect" }
func (c *InspectCmd) Aliases() []string { return nil }
func (c *InspectCmd) Synopsis() string  { return "Print the persisted state" }
func (c *InspectCmd) Usage() string     { return "taskboard inspect [common flags]" }
func (c *InspectCmd) NeedsStore() bool  { return true }

func (c *InspectCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *InspectCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	data, err := taskstore.EncodeIndent(st.Snapshot())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	}
	fmt.Fprintf(out, "%s\n", data)
	return exitcode.Success
}
