package session

import (
	"github.com/abhisek/lexicon/internal/mode"
	"github.com/abhisek/lexicon/internal/question"
	"github.com/abhisek/lexicon/internal/score"
	"github.com/abhisek/lexicon/internal/terms"
)

// Phase represents where the player is in the game flow.
type Phase int

const (
	PhaseMenu         Phase = iota // Choosing a game mode
	PhaseRaritySelect              // Choosing a rarity filter
	PhaseInRound                   // Answering a question
	PhaseFeedback                  // Showing the result of the last question
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseRaritySelect:
		return "rarity-select"
	case PhaseInRound:
		return "in-round"
	case PhaseFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// Feedback is the result shown after a question completes.
type Feedback struct {
	Correct bool
	Message string
	Expired bool

	// Explanation is the judge's reasoning for free-text answers, if any.
	Explanation string
}

// Round is the state of the current question. It is replaced on every
// advance and discarded when returning to the menu.
type Round struct {
	Mode   mode.Mode
	Filter question.Filter
	Term   terms.Term

	// Options holds the choices for choice-based modes; nil in hardcore.
	Options []string

	// Input is the free text typed so far in hardcore.
	Input string

	SecondsRemaining int
	Feedback         *Feedback

	// Grading is true while a submitted answer awaits its verdict.
	Grading bool
}

// Pending identifies a submitted answer awaiting its grade.
type Pending struct {
	Generation uint64
	Mode       mode.Mode
	Term       terms.Term
	Answer     string
}

// Outcome is what completing a question produced.
type Outcome struct {
	Feedback Feedback

	// XP is the experience awarded; zero for wrong or expired answers.
	XP int

	// Session is the session score after the question.
	Session int

	// HighScore is non-nil when the session score became a new personal
	// best that must be persisted.
	HighScore *score.Update
}
