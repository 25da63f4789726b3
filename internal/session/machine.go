// Package session implements the game flow: mode and rarity selection,
// questions, grading results, the timed-mode countdown and feedback.
//
// A Machine is owned by a single event loop. Asynchronous work (judge
// calls, ticks) is tied to a question generation; results for a stale
// generation are discarded.
package session

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/mode"
	"github.com/abhisek/lexicon/internal/question"
	"github.com/abhisek/lexicon/internal/score"
)

// Feedback messages.
const (
	msgCorrect = "Correct! +%d XP"
	msgWrong   = "Wrong. Correct answer: %s"
	msgExpired = "Time expired"
)

var (
	// ErrWrongPhase is returned when an operation is not valid in the current phase.
	ErrWrongPhase = errors.New("operation not allowed in this phase")

	// ErrInFlight is returned when an answer was already submitted for the question.
	ErrInFlight = errors.New("answer already submitted")
)

// Options configures a Machine.
type Options struct {
	// TimedBudget overrides the countdown of the timed mode. Zero uses
	// mode.TimedBudget.
	TimedBudget time.Duration
}

// Machine is the session state machine.
type Machine struct {
	selector *question.Selector
	keeper   *score.Keeper
	opts     Options

	phase     Phase
	mode      mode.Mode
	filter    question.Filter
	round     *Round
	countdown Countdown
	gen       uint64
}

// New creates a Machine in the menu phase.
func New(selector *question.Selector, keeper *score.Keeper, opts Options) *Machine {
	if opts.TimedBudget <= 0 {
		opts.TimedBudget = mode.TimedBudget
	}
	return &Machine{selector: selector, keeper: keeper, opts: opts}
}

func (m *Machine) Phase() Phase            { return m.phase }
func (m *Machine) Mode() mode.Mode         { return m.mode }
func (m *Machine) Filter() question.Filter { return m.filter }
func (m *Machine) Generation() uint64      { return m.gen }
func (m *Machine) Keeper() *score.Keeper   { return m.keeper }
func (m *Machine) Countdown() Countdown    { return m.countdown }

// Round returns a copy of the current round, or nil outside a round.
func (m *Machine) Round() *Round {
	if m.round == nil {
		return nil
	}
	r := *m.round
	r.Options = slices.Clone(m.round.Options)
	if m.round.Feedback != nil {
		fb := *m.round.Feedback
		r.Feedback = &fb
	}
	return &r
}

// Budget returns the per-question budget of mode md.
func (m *Machine) Budget(md mode.Mode) time.Duration {
	if md.IsTimed() {
		return m.opts.TimedBudget
	}
	return md.Budget()
}

// Ticking reports whether the countdown for the current question is live.
func (m *Machine) Ticking() bool {
	return m.phase == PhaseInRound && m.mode.IsTimed() && m.round != nil &&
		m.round.Feedback == nil && m.countdown.Running()
}

// ChooseMode selects the game mode and resets the session score.
func (m *Machine) ChooseMode(md mode.Mode) error {
	if m.phase != PhaseMenu && m.phase != PhaseRaritySelect {
		return fmt.Errorf("choose mode: %w", ErrWrongPhase)
	}
	if !md.Valid() {
		return fmt.Errorf("choose mode: unknown mode %q", md)
	}
	m.mode = md
	m.phase = PhaseRaritySelect
	m.keeper.ResetSession()
	return nil
}

// ChooseFilter selects the rarity filter and opens the first question. On
// ErrEmptyPool the machine stays in rarity selection.
func (m *Machine) ChooseFilter(f question.Filter) error {
	if m.phase != PhaseRaritySelect {
		return fmt.Errorf("choose filter: %w", ErrWrongPhase)
	}
	if err := m.nextQuestion(f); err != nil {
		return err
	}
	m.filter = f
	return nil
}

// SetInput records the free text typed so far.
func (m *Machine) SetInput(s string) {
	if m.phase == PhaseInRound && m.round.Feedback == nil && !m.round.Grading {
		m.round.Input = s
	}
}

// Submit accepts an answer for grading. The returned Pending must be passed
// to Complete together with the grade.
func (m *Machine) Submit(answer string) (Pending, error) {
	if m.phase != PhaseInRound || m.round.Feedback != nil {
		return Pending{}, fmt.Errorf("submit: %w", ErrWrongPhase)
	}
	if m.round.Grading {
		return Pending{}, ErrInFlight
	}
	if err := grading.Validate(m.mode, answer); err != nil {
		return Pending{}, err
	}
	m.round.Grading = true
	if !m.mode.IsChoiceBased() {
		m.round.Input = answer
	}
	return Pending{Generation: m.gen, Mode: m.mode, Term: m.round.Term, Answer: answer}, nil
}

// Complete applies a grade. It returns false, changing nothing, when the
// question has already completed or the player has moved on.
func (m *Machine) Complete(p Pending, res grading.Result) (Outcome, bool) {
	if p.Generation != m.gen || m.phase != PhaseInRound || m.round.Feedback != nil {
		return Outcome{}, false
	}

	m.round.Grading = false
	m.countdown.Stop()

	var out Outcome
	if res.Correct {
		out.XP = m.keeper.AwardXP(m.round.Term.Rarity)
		out.Feedback = Feedback{Correct: true, Message: fmt.Sprintf(msgCorrect, out.XP)}
	} else {
		out.Feedback = Feedback{Message: fmt.Sprintf(msgWrong, m.round.Term.Translation)}
	}
	out.Feedback.Explanation = res.Explanation
	return m.finish(out), true
}

// TickResult describes the effect of one countdown tick.
type TickResult struct {
	// Applied is false for stale ticks, which must not be rescheduled.
	Applied   bool
	Remaining int

	// Expired is set on the tick that ran the countdown out.
	Expired *Outcome
}

// Tick advances the countdown of generation gen by one second.
func (m *Machine) Tick(gen uint64) TickResult {
	if gen != m.gen || !m.Ticking() {
		return TickResult{}
	}

	remaining, expired := m.countdown.Step()
	m.round.SecondsRemaining = remaining
	res := TickResult{Applied: true, Remaining: remaining}
	if expired {
		m.round.Grading = false
		out := m.finish(Outcome{Feedback: Feedback{Message: msgExpired, Expired: true}})
		res.Expired = &out
	}
	return res
}

func (m *Machine) finish(out Outcome) Outcome {
	fb := out.Feedback
	m.round.Feedback = &fb
	m.phase = PhaseFeedback
	out.Session = m.keeper.Session()
	out.HighScore = m.keeper.Observe(out.Session)
	return out
}

// Advance moves from feedback to the next question with the same mode and
// filter.
func (m *Machine) Advance() error {
	if m.phase != PhaseFeedback {
		return fmt.Errorf("advance: %w", ErrWrongPhase)
	}
	return m.nextQuestion(m.filter)
}

// ReturnToMenu abandons the round from any phase. Pending grades and ticks
// become stale. The persisted high score and display name are untouched.
func (m *Machine) ReturnToMenu() {
	m.phase = PhaseMenu
	m.mode = ""
	m.filter = ""
	m.round = nil
	m.countdown = Countdown{}
	m.gen++
	m.keeper.ResetSession()
}

func (m *Machine) nextQuestion(f question.Filter) error {
	term, err := m.selector.Select(f)
	if err != nil {
		return err
	}

	m.gen++
	budget := m.Budget(m.mode)
	r := &Round{
		Mode:             m.mode,
		Filter:           f,
		Term:             term,
		SecondsRemaining: int(budget / time.Second),
	}
	if m.mode.IsChoiceBased() {
		r.Options = m.selector.BuildOptions(term)
	}
	m.round = r
	m.countdown = Countdown{}
	if m.mode.IsTimed() {
		m.countdown = NewCountdown(budget)
	}
	m.phase = PhaseInRound
	return nil
}
