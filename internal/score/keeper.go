// Package score tracks the session score and the player's persisted
// personal best.
package score

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/lexicon/internal/identity"
	"github.com/abhisek/lexicon/internal/rarity"
	"github.com/abhisek/lexicon/internal/store"
)

const (
	// DefaultName is the display name of a freshly created profile.
	DefaultName = "Player 1"

	// MaxNameLen is the maximum display name length in runes.
	MaxNameLen = 15
)

// ErrEmptyName is returned when a display name is blank.
var ErrEmptyName = errors.New("display name is empty")

// Update is a pending high-score write produced by Observe.
type Update struct {
	UID   string
	Name  string
	Score int
}

// Keeper owns the session score and the in-memory copy of the profile.
// In-memory state is authoritative; persistence failures never roll it back.
type Keeper struct {
	ident    identity.Provider
	profiles store.ProfileRepo
	board    store.LeaderboardRepo

	mu      sync.Mutex
	uid     string
	name    string
	high    int
	session int

	// persistMu orders high-score writes; persisted is the best score
	// known to be stored.
	persistMu sync.Mutex
	persisted int
}

// NewKeeper creates a Keeper. Call Load before relying on the high score.
func NewKeeper(ident identity.Provider, profiles store.ProfileRepo, board store.LeaderboardRepo) *Keeper {
	return &Keeper{
		ident:    ident,
		profiles: profiles,
		board:    board,
		name:     DefaultName,
	}
}

// Load resolves the identity and reads the profile, creating it with
// defaults if it does not exist yet. Without an identity it returns the
// in-memory profile.
func (k *Keeper) Load(ctx context.Context) (store.Profile, error) {
	uid, err := k.ident.Identity(ctx)
	if err != nil {
		return k.Profile(), fmt.Errorf("resolve identity: %w", err)
	}
	if uid == "" {
		return k.Profile(), nil
	}

	p, found, err := k.profiles.Get(ctx, uid)
	if err != nil {
		return k.Profile(), err
	}
	if !found {
		p = store.Profile{DisplayName: DefaultName}
		if err := k.profiles.Save(ctx, uid, p); err != nil {
			return k.Profile(), err
		}
	}
	if p.DisplayName == "" {
		p.DisplayName = DefaultName
	}

	k.mu.Lock()
	k.uid = uid
	k.name = p.DisplayName
	if p.HighScore > k.high {
		k.high = p.HighScore
	}
	k.mu.Unlock()

	k.persistMu.Lock()
	k.persisted = max(k.persisted, p.HighScore)
	k.persistMu.Unlock()
	return k.Profile(), nil
}

// Profile returns the in-memory profile.
func (k *Keeper) Profile() store.Profile {
	k.mu.Lock()
	defer k.mu.Unlock()
	return store.Profile{DisplayName: k.name, HighScore: k.high}
}

// UID returns the identity resolved by Load, or "".
func (k *Keeper) UID() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.uid
}

// Session returns the current session score.
func (k *Keeper) Session() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.session
}

// HighScore returns the personal best.
func (k *Keeper) HighScore() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.high
}

// AwardXP adds the tier's XP to the session score and returns the XP awarded.
func (k *Keeper) AwardXP(t rarity.Tier) int {
	xp := t.XP()
	k.mu.Lock()
	k.session += xp
	k.mu.Unlock()
	return xp
}

// ResetSession zeroes the session score.
func (k *Keeper) ResetSession() {
	k.mu.Lock()
	k.session = 0
	k.mu.Unlock()
}

// Observe records candidate as the new high score if it is strictly
// greater than the current one and returns the write to perform. It
// returns nil when there is nothing to persist. Without an identity
// nothing changes.
func (k *Keeper) Observe(candidate int) *Update {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.uid == "" || candidate <= k.high {
		return nil
	}
	k.high = candidate
	return &Update{UID: k.uid, Name: k.name, Score: candidate}
}

// Persist writes the profile and then the leaderboard entry. The two
// writes are independent; a failure of the second leaves the first in place.
// Calls are serialized, and an update not above the stored best is skipped,
// so a slow earlier write cannot overwrite a later one.
func (k *Keeper) Persist(ctx context.Context, u *Update) error {
	if u == nil {
		return nil
	}
	k.persistMu.Lock()
	defer k.persistMu.Unlock()
	if u.Score <= k.persisted {
		return nil
	}

	if err := k.profiles.Save(ctx, u.UID, store.Profile{DisplayName: u.Name, HighScore: u.Score}); err != nil {
		return fmt.Errorf("persist high score: %w", err)
	}
	k.persisted = u.Score
	if err := k.board.Put(ctx, store.LeaderboardEntry{UID: u.UID, DisplayName: u.Name, Score: u.Score}); err != nil {
		return fmt.Errorf("persist leaderboard entry: %w", err)
	}
	return nil
}

// MaybePersistHighScore combines Observe and Persist. It reports whether
// candidate became the new high score; without an identity it does nothing.
func (k *Keeper) MaybePersistHighScore(ctx context.Context, candidate int) (bool, error) {
	u := k.Observe(candidate)
	return u != nil, k.Persist(ctx, u)
}

// SetDisplayName truncates name to MaxNameLen runes, updates the in-memory
// profile and merges it into the stored one. It returns the stored name.
func (k *Keeper) SetDisplayName(ctx context.Context, name string) (string, error) {
	name = TruncateName(name)
	if name == "" {
		return "", ErrEmptyName
	}

	k.mu.Lock()
	k.name = name
	uid := k.uid
	k.mu.Unlock()

	if uid == "" {
		return name, nil
	}
	return name, k.profiles.SetName(ctx, uid, name)
}

// TruncateName trims surrounding whitespace and cuts name to MaxNameLen runes.
func TruncateName(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > MaxNameLen {
		r = r[:MaxNameLen]
	}
	return strings.TrimSpace(string(r))
}
