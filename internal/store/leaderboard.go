package store

import (
	"context"
	"fmt"
	"log"
	"sort"
)

type leaderboardRepo struct {
	docs  DocStore
	paths Paths
}

// NewLeaderboardRepo returns a LeaderboardRepo over docs.
func NewLeaderboardRepo(docs DocStore, paths Paths) LeaderboardRepo {
	return &leaderboardRepo{docs: docs, paths: paths}
}

func (r *leaderboardRepo) Put(ctx context.Context, e LeaderboardEntry) error {
	fields, err := toFields(e)
	if err != nil {
		return fmt.Errorf("encode leaderboard entry: %w", err)
	}
	if err := r.docs.Set(ctx, r.paths.LeaderboardEntry(e.UID), fields, false); err != nil {
		return fmt.Errorf("save leaderboard entry: %w", err)
	}
	return nil
}

func (r *leaderboardRepo) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	docs, err := r.docs.List(ctx, r.paths.Leaderboard())
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return RankTop(decodeEntries(docs), n), nil
}

func (r *leaderboardRepo) Watch(ctx context.Context, n int, fn func([]LeaderboardEntry)) (func(), error) {
	cancel, err := r.docs.Subscribe(ctx, r.paths.Leaderboard(), func(docs []Document) {
		fn(RankTop(decodeEntries(docs), n))
	})
	if err != nil {
		return nil, fmt.Errorf("watch leaderboard: %w", err)
	}
	return cancel, nil
}

func (r *leaderboardRepo) Delete(ctx context.Context, uid string) error {
	if err := r.docs.Delete(ctx, r.paths.LeaderboardEntry(uid)); err != nil {
		return fmt.Errorf("delete leaderboard entry: %w", err)
	}
	return nil
}

func decodeEntries(docs []Document) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(docs))
	for _, d := range docs {
		var e LeaderboardEntry
		if err := fromFields(d.Fields, &e); err != nil {
			log.Printf("store: skipping leaderboard entry %s: %v", d.Key, err)
			continue
		}
		e.UID = d.ID()
		out = append(out, e)
	}
	return out
}

// RankTop sorts entries by score descending, breaking ties by display name
// and then UID, and returns at most n of them. n <= 0 returns all.
func RankTop(entries []LeaderboardEntry, n int) []LeaderboardEntry {
	sorted := make([]LeaderboardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.UID < b.UID
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
