package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// Profile is a player's persisted stats document.
type Profile struct {
	DisplayName string `json:"name"`
	HighScore   int    `json:"highScore"`
}

// ProfileRepo reads and writes player profiles.
type ProfileRepo interface {
	// Get returns the profile for uid. found is false when none exists.
	Get(ctx context.Context, uid string) (p Profile, found bool, err error)

	// Save merges both profile fields into the stored document.
	Save(ctx context.Context, uid string, p Profile) error

	// SetName merges only the display name.
	SetName(ctx context.Context, uid, name string) error

	// Delete removes the profile.
	Delete(ctx context.Context, uid string) error
}

// LeaderboardEntry is one player's best score on the shared board.
type LeaderboardEntry struct {
	UID         string `json:"-"`
	DisplayName string `json:"name"`
	Score       int    `json:"score"`
}

// LeaderboardRepo manages the shared leaderboard.
type LeaderboardRepo interface {
	// Put writes the entry for e.UID, replacing any previous entry.
	Put(ctx context.Context, e LeaderboardEntry) error

	// Top returns at most n entries ranked by score.
	Top(ctx context.Context, n int) ([]LeaderboardEntry, error)

	// Watch calls fn with the ranked top n now and after every change.
	Watch(ctx context.Context, n int, fn func([]LeaderboardEntry)) (cancel func(), err error)

	// Delete removes the entry for uid.
	Delete(ctx context.Context, uid string) error
}

// JudgeEvent records a single answer-judging call.
type JudgeEvent struct {
	ID           string    `json:"-"`
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `json:"purpose"`
	Term         string    `json:"term,omitempty"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	LatencyMs    int64     `json:"latencyMs"`
	Success      bool      `json:"success"`
	Fallback     bool      `json:"fallback"`
	ErrorMessage string    `json:"error,omitempty"`
	RequestBody  string    `json:"request,omitempty"`
	ResponseBody string    `json:"response,omitempty"`
}

// JudgeEventRepo provides append and query access to judge events.
type JudgeEventRepo interface {
	// Append records an event and returns its ID.
	Append(ctx context.Context, e JudgeEvent) (string, error)

	// List returns events newest first.
	List(ctx context.Context, opts QueryOpts) ([]JudgeEvent, error)

	// Get returns a single event by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (JudgeEvent, error)
}

// toFields converts a tagged struct into document fields.
func toFields(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return m, nil
}

// fromFields fills a tagged struct from document fields.
func fromFields(m map[string]any, v any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}
