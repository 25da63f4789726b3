package score

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/identity"
	"github.com/abhisek/lexicon/internal/rarity"
	"github.com/abhisek/lexicon/internal/store"
)

type fixture struct {
	keeper   *Keeper
	profiles store.ProfileRepo
	board    store.LeaderboardRepo
}

func newFixture(t *testing.T, uid string) fixture {
	t.Helper()
	docs := store.NewMemory()
	t.Cleanup(func() { docs.Close() })
	paths := store.NewPaths("test")
	f := fixture{
		profiles: store.NewProfileRepo(docs, paths),
		board:    store.NewLeaderboardRepo(docs, paths),
	}
	f.keeper = NewKeeper(identity.Static(uid), f.profiles, f.board)
	return f
}

func TestLoad_CreatesMissingProfile(t *testing.T) {
	f := newFixture(t, "u1")
	p, err := f.keeper.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.Profile{DisplayName: DefaultName, HighScore: 0}, p)

	stored, found, err := f.profiles.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, DefaultName, stored.DisplayName)
}

func TestLoad_ReadsExistingProfile(t *testing.T) {
	f := newFixture(t, "u1")
	require.NoError(t, f.profiles.Save(context.Background(), "u1", store.Profile{DisplayName: "Ada", HighScore: 200}))

	p, err := f.keeper.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.DisplayName)
	assert.Equal(t, 200, f.keeper.HighScore())
}

func TestAwardXP(t *testing.T) {
	k := newFixture(t, "u1").keeper
	tests := []struct {
		tier rarity.Tier
		want int
	}{
		{rarity.Common, 5},
		{rarity.Rare, 15},
		{rarity.Legendary, 50},
		{rarity.Mythical, 150},
	}
	total := 0
	for _, tt := range tests {
		total += tt.want
		assert.Equal(t, tt.want, k.AwardXP(tt.tier))
		assert.Equal(t, total, k.Session())
	}

	k.ResetSession()
	assert.Zero(t, k.Session())
}

func TestMaybePersistHighScore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1")
	_, err := f.keeper.Load(ctx)
	require.NoError(t, err)

	changed, err := f.keeper.MaybePersistHighScore(ctx, 50)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.keeper.MaybePersistHighScore(ctx, 50)
	require.NoError(t, err)
	assert.False(t, changed, "equal score is not a new best")

	changed, err = f.keeper.MaybePersistHighScore(ctx, 20)
	require.NoError(t, err)
	assert.False(t, changed)

	p, _, err := f.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 50, p.HighScore)

	top, err := f.board.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, store.LeaderboardEntry{UID: "u1", DisplayName: DefaultName, Score: 50}, top[0])
}

func TestMaybePersistHighScore_WithoutIdentityIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	_, err := f.keeper.Load(ctx)
	require.NoError(t, err)

	assert.Nil(t, f.keeper.Observe(100))
	changed, err := f.keeper.MaybePersistHighScore(ctx, 100)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, f.keeper.HighScore())

	top, err := f.board.Top(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

// gatedProfiles blocks Save for one score until release is closed.
type gatedProfiles struct {
	store.ProfileRepo
	score   int
	entered chan struct{}
	release chan struct{}
}

func (g *gatedProfiles) Save(ctx context.Context, uid string, p store.Profile) error {
	if p.HighScore == g.score {
		close(g.entered)
		<-g.release
	}
	return g.ProfileRepo.Save(ctx, uid, p)
}

func TestPersist_OverlappingWritesKeepTheBest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1")
	gated := &gatedProfiles{ProfileRepo: f.profiles, score: 5, entered: make(chan struct{}), release: make(chan struct{})}
	k := NewKeeper(identity.Static("u1"), gated, f.board)
	_, err := k.Load(ctx)
	require.NoError(t, err)

	u5 := k.Observe(5)
	u10 := k.Observe(10)
	require.NotNil(t, u5)
	require.NotNil(t, u10)

	errs := make(chan error, 2)
	go func() { errs <- k.Persist(ctx, u5) }()
	<-gated.entered

	done10 := make(chan struct{})
	go func() {
		errs <- k.Persist(ctx, u10)
		close(done10)
	}()
	select {
	case <-done10:
		t.Fatal("second write finished while the first was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(gated.release)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	p, _, err := f.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.HighScore)
	top, err := f.board.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 10, top[0].Score)
}

func TestPersist_SkipsStaleUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1")
	_, err := f.keeper.Load(ctx)
	require.NoError(t, err)

	u5 := f.keeper.Observe(5)
	u10 := f.keeper.Observe(10)
	require.NoError(t, f.keeper.Persist(ctx, u10))
	require.NoError(t, f.keeper.Persist(ctx, u5))

	p, _, err := f.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.HighScore)
	top, err := f.board.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 10, top[0].Score)
}

type failingBoard struct{ store.LeaderboardRepo }

func (failingBoard) Put(context.Context, store.LeaderboardEntry) error {
	return errors.New("board offline")
}

func TestPersist_SecondWriteFailureKeepsProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1")
	k := NewKeeper(identity.Static("u1"), f.profiles, failingBoard{f.board})
	_, err := k.Load(ctx)
	require.NoError(t, err)

	changed, err := k.MaybePersistHighScore(ctx, 30)
	assert.True(t, changed)
	require.ErrorContains(t, err, "board offline")
	assert.Equal(t, 30, k.HighScore(), "in-memory state stays authoritative")

	p, _, err := f.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 30, p.HighScore)
}

func TestSetDisplayName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1")
	_, err := f.keeper.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, f.profiles.Save(ctx, "u1", store.Profile{DisplayName: DefaultName, HighScore: 70}))

	name, err := f.keeper.SetDisplayName(ctx, "ABCDEFGHIJKLMNOPQRST")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJKLMNO", name)

	p, _, err := f.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJKLMNO", p.DisplayName)
	assert.Equal(t, 70, p.HighScore, "name change merges into the profile")

	_, err = f.keeper.SetDisplayName(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ada", "Ada"},
		{"  Ada  ", "Ada"},
		{"Александр Скрябин", "Александр Скряб"},
		{"123456789012345", "123456789012345"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateName(tt.in), "input %q", tt.in)
	}
}
