package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/store"
)

// isolate points every state directory at a temp dir and returns a db path.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"LEXICON_APP_ID", "LEXICON_UID", "LEXICON_STORE", "LEXICON_DB"} {
		t.Setenv(k, "")
	}
	return filepath.Join(dir, "lexicon.db")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProfileNameAndReset(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "", "--store", "sqlite", "--db", db, "--uid", "u-1", "profile", "name", "  Clara  ")
	require.NoError(t, err)
	assert.Contains(t, out, "Playing as Clara")

	out, err = execute(t, "", "--store", "sqlite", "--db", db, "--uid", "u-1", "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:       Clara")
	assert.Contains(t, out, "High score: 0")

	out, err = execute(t, "no\n", "--store", "sqlite", "--db", db, "--uid", "u-1", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = execute(t, "y\n", "--store", "sqlite", "--db", db, "--uid", "u-1", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile reset.")

	out, err = execute(t, "", "--store", "sqlite", "--db", db, "--uid", "u-1", "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:       Player")
}

func TestLeaderboardCommand(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "", "--store", "sqlite", "--db", db, "--uid", "u-1", "leaderboard", "--top", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "No scores yet.")

	docs, err := store.OpenSQLite(context.Background(), db)
	require.NoError(t, err)
	board := store.NewLeaderboardRepo(docs, store.NewPaths(store.DefaultAppID))
	require.NoError(t, board.Put(context.Background(), store.LeaderboardEntry{UID: "a", DisplayName: "Ada", Score: 40}))
	require.NoError(t, board.Put(context.Background(), store.LeaderboardEntry{UID: "b", DisplayName: "Bea", Score: 90}))
	require.NoError(t, docs.Close())

	out, err = execute(t, "", "--store", "sqlite", "--db", db, "--uid", "u-1", "leaderboard", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bea")
	assert.NotContains(t, out, "Ada")

	_, err = execute(t, "", "--store", "sqlite", "--db", db, "--uid", "u-1", "leaderboard", "--top", "0")
	assert.Error(t, err)
}

func TestTermsCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "--store", "memory", "terms", "--rarity", "mythical")
	require.NoError(t, err)
	assert.Contains(t, out, "Mythical")
	assert.NotContains(t, out, "Common ")

	_, err = execute(t, "", "--store", "memory", "terms", "--rarity", "golden")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	events := []store.JudgeEvent{
		{Purpose: "judge", Model: "gemini-2.5-flash", InputTokens: 100, OutputTokens: 10, LatencyMs: 200},
		{Purpose: "judge", Model: "gemini-2.5-flash", InputTokens: 50, OutputTokens: 20, LatencyMs: 400},
		{Purpose: "judge-fallback", Model: "exact-match", Fallback: true, LatencyMs: 1},
	}

	got := summarize(events, func(e store.JudgeEvent) string { return e.Purpose })
	require.Len(t, got, 2)
	assert.Equal(t, usage{Key: "judge", Calls: 2, InputTokens: 150, OutputTokens: 30, AvgLatencyMs: 300}, got[0])
	assert.Equal(t, "judge-fallback", got[1].Key)

	var buf bytes.Buffer
	printStats(&buf, events)
	assert.Contains(t, buf.String(), "gemini-2.5-flash")
	assert.NotContains(t, buf.String(), "exact-match")
	assert.NotContains(t, buf.String(), "partial")
}

func TestFindEvent(t *testing.T) {
	ctx := context.Background()
	events := store.NewJudgeEventRepo(store.NewMemory(), store.NewPaths("test"))
	id, err := events.Append(ctx, store.JudgeEvent{Timestamp: time.Now(), Term: "Forte", Success: true})
	require.NoError(t, err)

	e, err := findEvent(ctx, events, id)
	require.NoError(t, err)
	assert.Equal(t, "Forte", e.Term)

	e, err = findEvent(ctx, events, id[:shortIDLen])
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)

	_, err = findEvent(ctx, events, "zzzz")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Größ", truncate("Größer", 4))
	assert.Equal(t, "abc", truncate("abc", 8))
}
