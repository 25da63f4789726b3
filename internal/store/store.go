package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no document exists at the key.
var ErrNotFound = errors.New("document not found")

// Document is a single JSON-shaped record addressed by a slash-separated key.
type Document struct {
	Key       string
	Fields    map[string]any
	UpdatedAt time.Time
}

// Collection returns the collection the document belongs to.
func (d Document) Collection() string {
	return Parent(d.Key)
}

// ID returns the last segment of the document key.
func (d Document) ID() string {
	return d.Key[strings.LastIndex(d.Key, "/")+1:]
}

// DocStore is a key/value document store with collection listing and
// change subscriptions.
type DocStore interface {
	// Get returns the document at key, or ErrNotFound.
	Get(ctx context.Context, key string) (Document, error)

	// Set writes fields at key. When merge is true, fields are merged into
	// an existing document; otherwise the document is replaced.
	Set(ctx context.Context, key string, fields map[string]any, merge bool) error

	// List returns every document directly under collection, ordered by key.
	List(ctx context.Context, collection string) ([]Document, error)

	// Delete removes the document at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Subscribe calls fn with the full collection immediately and again after
	// every change to it, until cancel is called or ctx is done. Callbacks for
	// one subscription never run concurrently; intermediate states may be
	// skipped when changes arrive faster than fn returns.
	Subscribe(ctx context.Context, collection string, fn func([]Document)) (cancel func(), err error)

	// Close releases the backend's resources.
	Close() error
}

// Parent returns the collection path of key.
func Parent(key string) string {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return ""
	}
	return key[:i]
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// SQLitePath is the database file or DSN for the sqlite backend.
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the DocStore described by opts.
func Open(ctx context.Context, opts Options) (DocStore, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return OpenSQLite(ctx, opts.SQLitePath)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", opts.Backend)
	}
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LEXICON_DB environment variable
// 2. $XDG_DATA_HOME/lexicon/lexicon.db
// 3. ~/.local/share/lexicon/lexicon.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LEXICON_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "lexicon.db")
	return p, EnsureDir(p)
}

// DataDir returns the directory lexicon keeps local state in.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "lexicon"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func mergeFields(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
