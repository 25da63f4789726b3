package session

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// Countdown counts whole seconds down to zero and fires exactly once.
type Countdown struct {
	remaining int
	running   bool
}

// NewCountdown starts a countdown of budget, rounded down to whole seconds.
func NewCountdown(budget time.Duration) Countdown {
	return Countdown{remaining: int(budget / time.Second), running: true}
}

// Step consumes one second. It reports expired exactly once, on the step
// that reaches zero; a stopped or finished countdown never changes.
func (c *Countdown) Step() (remaining int, expired bool) {
	if !c.running {
		return c.remaining, false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.running = false
		return 0, true
	}
	return c.remaining, false
}

// Stop freezes the countdown without firing.
func (c *Countdown) Stop() {
	c.running = false
}

// Remaining returns the seconds left.
func (c Countdown) Remaining() int {
	return c.remaining
}

// Running reports whether the countdown can still fire.
func (c Countdown) Running() bool {
	return c.running
}

// TickMsg is delivered once per second while a timed question is open. Gen
// is the question generation the tick was scheduled for.
type TickMsg struct {
	Gen uint64
}

// TickCmd schedules the next tick for generation gen.
func TickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}
