// Package identity resolves the player's user ID.
package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/lexicon/internal/store"
)

// Provider yields the current player's UID. An empty UID with a nil error
// means no identity is available yet; persistence is skipped in that case.
type Provider interface {
	Identity(ctx context.Context) (string, error)
}

// Static always returns the same UID.
type Static string

func (s Static) Identity(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// Anonymous generates a random UID on first use and stores it in a file so
// later runs resume the same player.
type Anonymous struct {
	path string

	mu  sync.Mutex
	uid string
}

// NewAnonymous returns an Anonymous provider backed by path.
func NewAnonymous(path string) *Anonymous {
	return &Anonymous{path: path}
}

// DefaultPath returns the identity file location in the data dir.
func DefaultPath() (string, error) {
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "identity"), nil
}

func (a *Anonymous) Identity(context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.uid != "" {
		return a.uid, nil
	}

	data, err := os.ReadFile(a.path)
	switch {
	case err == nil:
		if uid := strings.TrimSpace(string(data)); uid != "" {
			a.uid = uid
			return uid, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read identity: %w", err)
	}

	uid := uuid.NewString()
	if err := store.EnsureDir(a.path); err != nil {
		return "", fmt.Errorf("create identity dir: %w", err)
	}
	if err := os.WriteFile(a.path, []byte(uid+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write identity: %w", err)
	}
	a.uid = uid
	return uid, nil
}

// Resolve picks Static when uid is set and Anonymous otherwise.
func Resolve(uid string) (Provider, error) {
	if strings.TrimSpace(uid) != "" {
		return Static(uid), nil
	}
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewAnonymous(path), nil
}
