package rarity

import "fmt"

// Tier is the scarcity classification of a term. It gates both the XP
// reward and the rarity filter a player can choose before a round.
type Tier string

const (
	Common    Tier = "common"
	Rare      Tier = "rare"
	Legendary Tier = "legendary"
	Mythical  Tier = "mythical"
)

// Level describes how a tier is displayed and rewarded.
type Level struct {
	Label string
	XP    int
	Rank  int // 0 for common, increasing with scarcity
}

var levels = map[Tier]Level{
	Common:    {Label: "Common", XP: 5, Rank: 0},
	Rare:      {Label: "Rare", XP: 15, Rank: 1},
	Legendary: {Label: "Legendary", XP: 50, Rank: 2},
	Mythical:  {Label: "Mythical", XP: 150, Rank: 3},
}

// All returns all tiers ordered from most common to scarcest.
func All() []Tier {
	return []Tier{Common, Rare, Legendary, Mythical}
}

// Lookup returns the level for a tier.
func Lookup(t Tier) (Level, bool) {
	l, ok := levels[t]
	return l, ok
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := levels[t]
	return ok
}

// XP returns the experience awarded for answering a term of this tier
// correctly. Unknown tiers award nothing.
func (t Tier) XP() int {
	return levels[t].XP
}

// Rank orders tiers by scarcity. Unknown tiers rank below common.
func (t Tier) Rank() int {
	l, ok := levels[t]
	if !ok {
		return -1
	}
	return l.Rank
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	if l, ok := levels[t]; ok {
		return l.Label
	}
	return string(t)
}

// Icon returns the glyph shown next to the tier label.
func (t Tier) Icon() string {
	switch t {
	case Common:
		return "☆"
	case Rare:
		return "✦"
	case Legendary:
		return "♛"
	case Mythical:
		return "🔥"
	default:
		return "·"
	}
}

// Parse converts a user-supplied string into a Tier.
func Parse(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown rarity %q", s)
	}
	return t, nil
}
