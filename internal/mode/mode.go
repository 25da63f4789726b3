package mode

import (
	"fmt"
	"time"
)

// Mode selects the grading policy and whether a countdown runs.
type Mode string

const (
	Quiz     Mode = "quiz"
	Bomber   Mode = "bomber"
	Hard     Mode = "hard"
	Matching Mode = "matching"
)

const (
	// TimedBudget is the per-question countdown in the timed mode.
	TimedBudget = 10 * time.Second

	// DisplayBudget is shown for untimed modes; it never counts down.
	DisplayBudget = 30 * time.Second
)

// All returns every selectable mode in menu order.
func All() []Mode {
	return []Mode{Quiz, Bomber, Hard, Matching}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case Quiz, Bomber, Hard, Matching:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the mode.
func (m Mode) DisplayName() string {
	switch m {
	case Quiz:
		return "Quiz"
	case Bomber:
		return "Time Bomber"
	case Hard:
		return "Hardcore"
	case Matching:
		return "Matching"
	default:
		return string(m)
	}
}

// Description is the one-line blurb shown in the menu.
func (m Mode) Description() string {
	switch m {
	case Quiz:
		return "Pick the right translation from four options"
	case Bomber:
		return "Four options, ten seconds per term"
	case Hard:
		return "Type the translation yourself, judged by AI"
	case Matching:
		return "Match the term to its meaning"
	default:
		return ""
	}
}

// IsChoiceBased reports whether the mode presents a fixed option list.
// Matching shares the choice-based flow.
func (m Mode) IsChoiceBased() bool {
	return m != Hard
}

// IsTimed reports whether a countdown runs while a question is open.
func (m Mode) IsTimed() bool {
	return m == Bomber
}

// Budget returns the per-question time budget for the mode.
func (m Mode) Budget() time.Duration {
	if m.IsTimed() {
		return TimedBudget
	}
	return DisplayBudget
}

// Seconds returns Budget in whole seconds.
func (m Mode) Seconds() int {
	return int(m.Budget() / time.Second)
}

// Parse converts a user-supplied string into a Mode.
func Parse(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}
