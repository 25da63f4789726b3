package components

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexicon/internal/ui/theme"
)

// lowTime is the remaining share below which a countdown turns red.
const lowTime = 0.3

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	Fill        color.Color
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        theme.Secondary,
	}
}

// NewCountdownBar renders the time left in a timed round. The bar drains
// from full and switches to the error colour when time is nearly out.
func NewCountdownBar(remaining, budget time.Duration, width int) ProgressBar {
	pct := 0.0
	if budget > 0 {
		pct = float64(remaining) / float64(budget)
	}
	fill := theme.ArcadeCyan
	if pct < lowTime {
		fill = theme.Error
	}
	return ProgressBar{
		Label:   fmt.Sprintf("⏱ %2ds", int(remaining.Round(time.Second)/time.Second)),
		Percent: pct,
		Width:   width,
		Fill:    fill,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)
	empty := barWidth - filled

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}
