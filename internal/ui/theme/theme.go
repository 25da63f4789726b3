package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/rarity"
)

// Color palette, stage lights on a dark hall.
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

// Rarity colors, one per tier.
var (
	RarityCommon    = lipgloss.Color("#94A3B8")
	RarityRare      = lipgloss.Color("#38BDF8")
	RarityLegendary = lipgloss.Color("#C084FC")
	RarityMythical  = lipgloss.Color("#FB7185")
)

// RarityColor returns the accent color of a tier.
func RarityColor(t rarity.Tier) color.Color {
	switch t {
	case rarity.Common:
		return RarityCommon
	case rarity.Rare:
		return RarityRare
	case rarity.Legendary:
		return RarityLegendary
	case rarity.Mythical:
		return RarityMythical
	default:
		return Text
	}
}

// Buttons
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
