package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/ui/theme"
)

const bannerArt = `
 ██╗     ███████╗██╗  ██╗██╗ ██████╗ ██████╗ ███╗   ██╗
 ██║     ██╔════╝╚██╗██╔╝██║██╔════╝██╔═══██╗████╗  ██║
 ██║     █████╗   ╚███╔╝ ██║██║     ██║   ██║██╔██╗ ██║
 ██║     ██╔══╝   ██╔██╗ ██║██║     ██║   ██║██║╚██╗██║
 ███████╗███████╗██╔╝ ██╗██║╚██████╗╚██████╔╝██║ ╚████║
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝ ╚═════╝ ╚═════╝ ╚═╝  ╚═══╝`

const bannerCompact = "L E X I C O N"

// bannerWidth is the widest line of bannerArt in cells.
const bannerWidth = 56

// RenderBanner returns the LEXICON banner in the arcade yellow. Terminals
// narrower than the art get the compact spelling.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
