package backend_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"taskboard/internal/backend"
	"taskboard/internal/backend/filestore"
	"taskboard/internal/config"
)

func cfgFor(t *testing.T, name string) *config.Config {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	cfg.Settings.Backend = name
	return cfg
}

func TestOpen_File(t *testing.T) {
	cfg := cfgFor(t, config.BackendFile)
	st, err := backend.Open(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, &filestore.Store{}, st)

	_, err = os.Stat(cfg.BoardsPath())
	require.NoError(t, err)
}

func TestOpen_SQLiteDefaultsToConfigDir(t *testing.T) {
	cfg := cfgFor(t, config.BackendSQLite)
	st, err := backend.Open(context.Background(), cfg)
	require.NoError(t, err)
	closer, ok := st.(io.Closer)
	require.True(t, ok)
	defer closer.Close()

	_, err = os.Stat(filepath.Join(cfg.Dir, config.DatabaseFile))
	require.NoError(t, err)
}

func TestOpen_MySQLRequiresDSN(t *testing.T) {
	_, err := backend.Open(context.Background(), cfgFor(t, config.BackendMySQL))
	require.True(t, errors.Is(err, backend.ErrNoDSN))
}

func TestOpen_Unknown(t *testing.T) {
	_, err := backend.Open(context.Background(), cfgFor(t, "redis"))
	require.Error(t, err)
}

func TestNeedsAuth(t *testing.T) {
	cfg := cfgFor(t, config.BackendFirestore)
	require.True(t, backend.NeedsAuth(cfg))
	cfg.Settings.Firestore.CredentialsFile = "sa.json"
	require.False(t, backend.NeedsAuth(cfg))
	require.False(t, backend.NeedsAuth(cfgFor(t, config.BackendFile)))
}
