package profile

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/identity"
	"github.com/abhisek/lexicon/internal/score"
	"github.com/abhisek/lexicon/internal/store"
)

func newKeeper(t *testing.T) (*score.Keeper, store.ProfileRepo) {
	t.Helper()
	docs := store.NewMemory()
	t.Cleanup(func() { docs.Close() })
	profiles := store.NewProfileRepo(docs, store.NewPaths("test"))
	k := score.NewKeeper(identity.Static("u1"), profiles, store.NewLeaderboardRepo(docs, store.NewPaths("test")))
	_, err := k.Load(context.Background())
	require.NoError(t, err)
	return k, profiles
}

func TestSave_TruncatesAndStores(t *testing.T) {
	k, profiles := newKeeper(t)
	s := New(k)
	assert.Equal(t, score.DefaultName, s.input.Value())

	s.input.SetValue(strings.Repeat("x", 20))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, s.saving)

	_, done := s.Update(cmd())
	assert.NotNil(t, done)
	assert.Empty(t, s.errMsg)

	p, found, err := profiles.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, strings.Repeat("x", 15), p.DisplayName)
}

func TestSave_EmptyNameRejected(t *testing.T) {
	k, _ := newKeeper(t)
	s := New(k)
	s.input.SetValue("   ")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, done := s.Update(cmd())
	assert.Nil(t, done)
	assert.Equal(t, "Name cannot be empty", s.errMsg)
	assert.Contains(t, s.View(80, 24), "Name cannot be empty")
}
