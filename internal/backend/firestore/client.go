// Package firestore implements storage.Storage on Cloud Firestore documents
// through the Firestore REST API.
package firestore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	fs "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"taskboard/internal/config"
	"taskboard/internal/storage"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// StateField is the document field holding the stored bytes.
	StateField = "state"

	// Scope is the OAuth scope required for Firestore documents.
	Scope = "https://www.googleapis.com/auth/datastore"
)

// ErrNoProject is returned when no project ID is configured.
var ErrNoProject = errors.New("firestore project is not configured (set firestore.projectId)")

// Client implements storage.Storage using Firestore documents, one per key.
type Client struct {
	svc        *fs.Service
	project    string
	database   string
	collection string
}

// New creates a Firestore client from config.
// Uses the service account file when configured, otherwise requires
// oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	settings := cfg.Settings.Firestore
	project := settings.ProjectID

	var httpClient *http.Client
	if settings.CredentialsFile != "" {
		data, err := os.ReadFile(settings.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, Scope)
		if err != nil {
			return nil, fmt.Errorf("invalid credentials file: %w", err)
		}
		if project == "" {
			project = creds.ProjectID
		}
		httpClient = oauth2.NewClient(ctx, creds.TokenSource)
	} else {
		ts, err := tokenSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		httpClient = oauth2.NewClient(ctx, ts)
	}

	if project == "" {
		return nil, ErrNoProject
	}

	svc, err := fs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore service: %w", err)
	}
	return &Client{
		svc:        svc,
		project:    project,
		database:   settings.Database,
		collection: settings.Collection,
	}, nil
}

// tokenSource builds an auto-refreshing token source from the stored login.
func tokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	return oauthConfig.TokenSource(ctx, &token), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, project, database, collection string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := fs.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, project: project, database: database, collection: collection}, nil
}

func (c *Client) docName(key string) string {
	return fmt.Sprintf("projects/%s/databases/%s/documents/%s/%s", c.project, c.database, c.collection, key)
}

// GetItem implements storage.Storage.
func (c *Client) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, false, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc, err := c.svc.Projects.Databases.Documents.Get(c.docName(key)).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, wrapError(err)
	}

	field, ok := doc.Fields[StateField]
	if !ok {
		return nil, false, fmt.Errorf("document %s has no %s field", key, StateField)
	}
	data, err := base64.StdEncoding.DecodeString(field.BytesValue)
	if err != nil {
		return nil, false, fmt.Errorf("document %s: %w", key, err)
	}
	return data, true, nil
}

// SetItem implements storage.Storage. The document is created or replaced.
func (c *Client) SetItem(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc := &fs.Document{
		Fields: map[string]fs.Value{
			StateField: {BytesValue: base64.StdEncoding.EncodeToString(value)},
		},
	}
	if _, err := c.svc.Projects.Databases.Documents.Patch(c.docName(key), doc).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// RemoveItem implements storage.Storage. Removing a missing document is not an error.
func (c *Client) RemoveItem(ctx context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if _, err := c.svc.Projects.Databases.Documents.Delete(c.docName(key)).Context(ctx).Do(); err != nil {
		if isNotFound(err) {
			return nil
		}
		return wrapError(err)
	}
	return nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: taskboard login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	return err
}
