package store

import "path"

// DefaultAppID namespaces documents when no app ID is configured.
const DefaultAppID = "lexicon"

// Paths builds document keys for one app namespace.
type Paths struct {
	AppID string
}

// NewPaths returns Paths for appID, falling back to DefaultAppID.
func NewPaths(appID string) Paths {
	if appID == "" {
		appID = DefaultAppID
	}
	return Paths{AppID: appID}
}

// Profile is the key of a player's profile document.
func (p Paths) Profile(uid string) string {
	return path.Join("artifacts", p.AppID, "users", uid, "profile", "stats")
}

// Leaderboard is the shared leaderboard collection.
func (p Paths) Leaderboard() string {
	return path.Join("artifacts", p.AppID, "public", "data", "leaderboard")
}

// LeaderboardEntry is the key of a player's leaderboard entry.
func (p Paths) LeaderboardEntry(uid string) string {
	return path.Join(p.Leaderboard(), uid)
}

// JudgeEvents is the collection of recorded judge calls.
func (p Paths) JudgeEvents() string {
	return path.Join("artifacts", p.AppID, "private", "judge_events")
}

// JudgeEvent is the key of one recorded judge call.
func (p Paths) JudgeEvent(id string) string {
	return path.Join(p.JudgeEvents(), id)
}
