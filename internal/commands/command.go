// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/taskstore"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command operates on the board.
	// Commands like help, version, login, logout return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// st is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, st *taskstore.Store, args []string, out, errOut io.Writer) int
}

// Statuses returns the configured board columns, or the default columns
// when none are configured.
func Statuses(cfg *config.Config) []taskstore.Status {
	if len(cfg.Settings.Statuses) == 0 {
		return append([]taskstore.Status(nil), taskstore.DefaultStatuses...)
	}
	result := make([]taskstore.Status, len(cfg.Settings.Statuses))
	for i, s := range cfg.Settings.Statuses {
		result[i] = taskstore.Status(s)
	}
	return result
}

// ParseStatus checks s against the configured columns.
func ParseStatus(cfg *config.Config, s string) (taskstore.Status, error) {
	statuses := Statuses(cfg)
	names := make([]string, len(statuses))
	for i, st := range statuses {
		if string(st) == s {
			return st, nil
		}
		names[i] = string(st)
	}
	return "", fmt.Errorf("unknown status: %s (expected one of: %s)", s, strings.Join(names, ", "))
}

func printOK(cfg *config.Config, out io.Writer) {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
}
