// Package config handles the XDG configuration directory, config.yaml and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// FileName is the optional settings file inside the config directory.
	FileName = "config.yaml"

	// EnvFile is an optional dotenv file inside the config directory.
	EnvFile = ".env"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DatabaseFile is the SQLite database used by the sqlite backend.
	DatabaseFile = "board.db"

	// BoardsDir holds one JSON file per store for the file backend.
	BoardsDir = "boards"
)

// Backend names accepted in config.yaml and TASKBOARD_BACKEND.
const (
	BackendFile      = "file"
	BackendSQLite    = "sqlite"
	BackendMySQL     = "mysql"
	BackendFirestore = "firestore"
)

// Defaults.
const (
	DefaultStoreName           = "task-store"
	DefaultFirestoreDatabase   = "(default)"
	DefaultFirestoreCollection = "boards"
	DefaultLogLevel            = "warn"
)

// DefaultStatuses is the board column order used when none is configured.
var DefaultStatuses = []string{"open", "in-progress", "done"}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings is the content of config.yaml after env overrides.
	Settings Settings
}

// Settings mirrors config.yaml.
type Settings struct {
	Backend   string            `yaml:"backend"`
	StoreName string            `yaml:"storeName"`
	Statuses  []string          `yaml:"statuses"`
	SQL       SQLSettings       `yaml:"sql"`
	Firestore FirestoreSettings `yaml:"firestore"`
	Logging   LoggingSettings   `yaml:"logging"`
}

// SQLSettings configures the mysql backend. The sqlite backend only needs the
// DSN when the database should live outside the config directory.
type SQLSettings struct {
	DSN string `yaml:"dsn"`
}

// FirestoreSettings configures the firestore backend.
type FirestoreSettings struct {
	ProjectID       string `yaml:"projectId"`
	Database        string `yaml:"database"`
	Collection      string `yaml:"collection"`
	CredentialsFile string `yaml:"credentialsFile"` // service account JSON; empty uses login token
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// New creates a Config for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskboard or $HOME/.config/taskboard.
// A missing config.yaml is not an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	if err := godotenv.Load(filepath.Join(dir, EnvFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}

	data, err := os.ReadFile(cfg.SettingsPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg.Settings); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", FileName, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	applyEnvOverrides(&cfg.Settings)
	applyDefaults(&cfg.Settings)

	if err := cfg.Settings.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("TASKBOARD_BACKEND"); v != "" {
		s.Backend = v
	}
	if v := os.Getenv("TASKBOARD_STORE_NAME"); v != "" {
		s.StoreName = v
	}
	if v := os.Getenv("TASKBOARD_SQL_DSN"); v != "" {
		s.SQL.DSN = v
	}
	if v := os.Getenv("TASKBOARD_FIRESTORE_PROJECT"); v != "" {
		s.Firestore.ProjectID = v
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
}

func applyDefaults(s *Settings) {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if s.Backend == "" {
		s.Backend = BackendFile
	}
	if s.StoreName == "" {
		s.StoreName = DefaultStoreName
	}
	if len(s.Statuses) == 0 {
		s.Statuses = append([]string(nil), DefaultStatuses...)
	}
	if s.Firestore.Database == "" {
		s.Firestore.Database = DefaultFirestoreDatabase
	}
	if s.Firestore.Collection == "" {
		s.Firestore.Collection = DefaultFirestoreCollection
	}
	if s.Logging.Level == "" {
		s.Logging.Level = DefaultLogLevel
	}
}

func (s *Settings) validate() error {
	switch s.Backend {
	case BackendFile, BackendSQLite, BackendMySQL, BackendFirestore:
	default:
		return fmt.Errorf("unknown backend: %s", s.Backend)
	}
	seen := make(map[string]bool, len(s.Statuses))
	for _, st := range s.Statuses {
		if strings.TrimSpace(st) == "" {
			return fmt.Errorf("empty status in %s", FileName)
		}
		if seen[st] {
			return fmt.Errorf("duplicate status: %s", st)
		}
		seen[st] = true
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, FileName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// DatabasePath returns the SQLite database path.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Dir, DatabaseFile)
}

// BoardsPath returns the directory used by the file backend.
func (c *Config) BoardsPath() string {
	return filepath.Join(c.Dir, BoardsDir)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
