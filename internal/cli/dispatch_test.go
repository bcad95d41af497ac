package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/storage"
	"taskboard/internal/taskstore"
	"taskboard/internal/testutil"
)

// testFactory creates a storage factory that returns the given FakeStorage.
func testFactory(fake *testutil.FakeStorage) cli.StorageFactory {
	return func(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
		return fake, nil
	}
}

func failingFactory(err error) cli.StorageFactory {
	return func(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
		return nil, err
	}
}

// run dispatches args with an isolated config directory.
func run(t *testing.T, factory cli.StorageFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	for _, k := range []string{"TASKBOARD_BACKEND", "TASKBOARD_STORE_NAME", "TASKBOARD_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	var outBuf, errBuf bytes.Buffer
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	// Flags must precede positional arguments.
	if len(args) > 0 {
		args = append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	}
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectCode(t *testing.T, want, got int) {
	t.Helper()
	if want != got {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, nil, "unknowncmd")

	expectCode(t, exitcode.UserError, code)
	if expected := "error: unknown command: unknowncmd\n"; stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, nil, "--quiet")

	expectCode(t, exitcode.UserError, code)
	if !strings.HasPrefix(stderr, "error: unknown command: --quiet") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_HelpAndVersion(t *testing.T) {
	stdout, stderr, code := run(t, nil, "help")
	expectCode(t, exitcode.Success, code)
	if stderr != "" || !strings.Contains(stdout, "Usage:") {
		t.Errorf("unexpected help output %q / %q", stdout, stderr)
	}

	stdout, _, code = run(t, nil, "version")
	expectCode(t, exitcode.Success, code)
	if stdout != "taskboard 0.1.0\n" {
		t.Errorf("expected 'taskboard 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, nil, "help", "--unknown")

	expectCode(t, exitcode.UserError, code)
	if expected := "error: unknown flag: -unknown\n"; stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)
	code := dispatcher.Run(context.Background(), []string{"add", "--status"}, &outBuf, &errBuf)

	expectCode(t, exitcode.UserError, code)
	if expected := "error: flag needs an argument: -status\n"; errBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, errBuf.String())
	}
}

func TestDispatcher_DefaultCommandShowsBoard(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	stdout, _, code := run(t, testFactory(testutil.NewFakeStorage()))

	expectCode(t, exitcode.Success, code)
	if !strings.HasPrefix(stdout, "------------\nopen (3)\n") {
		t.Errorf("unexpected board %q", stdout)
	}
}

func TestDispatcher_StatePersistsAcrossInvocations(t *testing.T) {
	fake := testutil.NewFakeStorage()

	_, _, code := run(t, testFactory(fake), "drag", "ABC-1")
	expectCode(t, exitcode.Success, code)

	// The cursor is part of the persisted state.
	_, _, code = run(t, testFactory(fake), "drop", "done")
	expectCode(t, exitcode.Success, code)

	stdout, _, _ := run(t, testFactory(fake), "column", "done")
	if stdout != "  ABC-1  Task 1\n" {
		t.Errorf("unexpected done column %q", stdout)
	}

	data, ok := fake.Raw(taskstore.DefaultKey)
	if !ok {
		t.Fatal("expected persisted state")
	}
	state, err := taskstore.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if state.DraggingTaskID != "" {
		t.Errorf("cursor should be cleared, got %q", state.DraggingTaskID)
	}
}

func TestDispatcher_StoreNameFromEnv(t *testing.T) {
	fake := testutil.NewFakeStorage()
	var outBuf, errBuf bytes.Buffer
	t.Setenv("TASKBOARD_STORE_NAME", "team-board")

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(fake))
	code := dispatcher.Run(context.Background(), []string{"add", "--config", t.TempDir(), "x"}, &outBuf, &errBuf)

	expectCode(t, exitcode.Success, code)
	if _, ok := fake.Raw("team-board"); !ok {
		t.Error("state should be stored under the configured name")
	}
	if _, ok := fake.Raw(taskstore.DefaultKey); ok {
		t.Error("default key should be untouched")
	}
}

func TestDispatcher_PersistFailureIsReported(t *testing.T) {
	fake := testutil.NewFakeStorage()
	fake.SetErrors(nil, errors.New("disk full"), nil)

	stdout, stderr, code := run(t, testFactory(fake), "release")

	expectCode(t, exitcode.StorageError, code)
	if stdout != "ok\n" {
		t.Errorf("the command itself should succeed, got %q", stdout)
	}
	if !strings.Contains(stderr, "warning: failed to persist state:") || !strings.Contains(stderr, "disk full") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_ReadFailureAborts(t *testing.T) {
	fake := testutil.NewFakeStorage()
	fake.SetErrors(errors.New("connection refused"), nil, nil)

	stdout, stderr, code := run(t, testFactory(fake), "add", "never")

	expectCode(t, exitcode.StorageError, code)
	if stdout != "" {
		t.Errorf("command should not run, got %q", stdout)
	}
	if !strings.Contains(stderr, "connection refused") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if fake.Writes(taskstore.DefaultKey) != 0 {
		t.Error("nothing should be written after a failed read")
	}
}

func TestDispatcher_MalformedStateFallsBackToSeed(t *testing.T) {
	fake := testutil.NewFakeStorage()
	fake.Put(taskstore.DefaultKey, []byte("{broken"))

	stdout, stderr, code := run(t, testFactory(fake), "count")

	expectCode(t, exitcode.Success, code)
	if stdout != "4\n" {
		t.Errorf("expected seed count, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "warning: stored board is malformed") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	_, stderr, code := run(t, failingFactory(errors.New("failed to read token.json: missing")), "count")
	expectCode(t, exitcode.AuthError, code)
	if !strings.HasPrefix(stderr, "error: auth error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}

	_, stderr, code = run(t, failingFactory(errors.New("dial tcp: refused")), "count")
	expectCode(t, exitcode.StorageError, code)
	if !strings.HasPrefix(stderr, "error: storage error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FirestoreRequiresLogin(t *testing.T) {
	t.Setenv("TASKBOARD_BACKEND", "firestore")
	var outBuf, errBuf bytes.Buffer
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStorage()))

	code := dispatcher.Run(context.Background(), []string{"count", "--config", t.TempDir()}, &outBuf, &errBuf)

	expectCode(t, exitcode.AuthError, code)
	if expected := "error: not logged in (run: taskboard login)\n"; errBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, errBuf.String())
	}
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("backend: redis\n"), 0600); err != nil {
		t.Fatal(err)
	}
	var outBuf, errBuf bytes.Buffer
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	code := dispatcher.Run(context.Background(), []string{"count", "--config", dir}, &outBuf, &errBuf)

	expectCode(t, exitcode.AuthError, code)
	if expected := "error: unknown backend: redis\n"; errBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, errBuf.String())
	}
}

func TestDispatcher_NilFactoryUsesMemory(t *testing.T) {
	stdout, _, code := run(t, nil, "add", "ephemeral")

	expectCode(t, exitcode.Success, code)
	if strings.TrimSpace(stdout) == "" {
		t.Error("expected the new task id")
	}
}
