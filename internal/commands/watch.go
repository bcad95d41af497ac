package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/storage"
	"taskboard/internal/taskstore"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd re-renders the board whenever another process changes it.
type WatchCmd struct{}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Follow board changes" }
func (c *WatchCmd) Usage() string     { return "taskboard watch [common flags]" }
func (c *WatchCmd) NeedsStore() bool  { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int {
	watcher, ok := st.Storage().(storage.Watcher)
	if !ok {
		fmt.Fprintf(errOut, "error: backend %s does not support watch\n", cfg.Settings.Backend)
		return exitcode.UserError
	}

	logger := zap.L().With(zap.String("key", st.Key()))
	statuses := Statuses(cfg)
	render := func() {
		fmt.Fprintln(out)
		output.FormatBoard(out, statuses, st.Snapshot())
	}

	unsubscribe := st.Subscribe(func(ch taskstore.Change) {
		logger.Debug("board changed", zap.String("action", ch.Action))
	})
	defer unsubscribe()

	output.FormatBoard(out, statuses, st.Snapshot())
	err := watcher.Watch(ctx, st.Key(), func() {
		if err := st.Reload(ctx); err != nil {
			logger.Warn("failed to reload board", zap.Error(err))
			return
		}
		render()
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
	return exitcode.Success
}
