package rarityselect

import (
	"context"
	"math/rand/v2"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/identity"
	"github.com/abhisek/lexicon/internal/mode"
	"github.com/abhisek/lexicon/internal/question"
	"github.com/abhisek/lexicon/internal/rarity"
	"github.com/abhisek/lexicon/internal/router"
	"github.com/abhisek/lexicon/internal/score"
	"github.com/abhisek/lexicon/internal/screen"
	"github.com/abhisek/lexicon/internal/session"
	"github.com/abhisek/lexicon/internal/store"
	"github.com/abhisek/lexicon/internal/terms"
)

func newMachine(t *testing.T, catalog []terms.Term) *session.Machine {
	t.Helper()
	docs := store.NewMemory()
	t.Cleanup(func() { docs.Close() })
	paths := store.NewPaths("test")
	keeper := score.NewKeeper(identity.Static("u1"), store.NewProfileRepo(docs, paths), store.NewLeaderboardRepo(docs, paths))
	_, err := keeper.Load(context.Background())
	require.NoError(t, err)

	sel := question.NewSelectorFrom(catalog, rand.New(rand.NewPCG(1, 2)))
	m := session.New(sel, keeper, session.Options{})
	require.NoError(t, m.ChooseMode(mode.Quiz))
	return m
}

func press(s *RarityScreen, k tea.KeyPressMsg) tea.Cmd {
	_, cmd := s.Update(k)
	return cmd
}

func TestChooseFilter_PushesRound(t *testing.T) {
	m := newMachine(t, terms.All())
	s := New(m, grading.New(nil))

	press(s, tea.KeyPressMsg{Code: tea.KeyDown})
	cmd := press(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Quiz", msg.Screen.Title())
	assert.Equal(t, session.PhaseInRound, m.Phase())
	assert.Equal(t, rarity.Common, m.Round().Term.Rarity)
}

func TestChooseFilter_EmptyPoolReturnsToMenu(t *testing.T) {
	only := []terms.Term{{Term: "Forte", Translation: "Громко", Rarity: rarity.Common, Lang: "it"}}
	m := newMachine(t, only)
	s := New(m, grading.New(nil))

	s.menu.Selected = len(s.menu.Items) - 1 // mythical
	cmd := press(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, session.PhaseMenu, m.Phase())
}

func TestClose_ResetsMachine(t *testing.T) {
	m := newMachine(t, terms.All())
	s := New(m, grading.New(nil))

	var _ screen.Closer = s
	s.Close()
	assert.Equal(t, session.PhaseMenu, m.Phase())
}

func TestView_ListsEveryFilter(t *testing.T) {
	s := New(newMachine(t, terms.All()), grading.New(nil))
	view := s.View(100, 30)
	for _, f := range question.Filters() {
		assert.Contains(t, view, f.DisplayName())
	}
	assert.Contains(t, view, "+150 XP")
}
