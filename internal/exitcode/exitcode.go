// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, ambiguous ref, bad status).
	UserError = 1

	// AuthError indicates missing or rejected credentials, or an invalid config.
	AuthError = 2

	// StorageError indicates the storage adapter could not be opened, read or written.
	StorageError = 3
)
