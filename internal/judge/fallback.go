package judge

import (
	"context"
	"log"
	"time"

	"github.com/abhisek/lexicon/internal/store"
	"github.com/abhisek/lexicon/internal/terms"
)

// DefaultTimeout bounds a remote judge call before the local verdict is used.
const DefaultTimeout = 8 * time.Second

// Fallback is a decorator that bounds the primary judge with a timeout and
// substitutes the local verdict on any failure. Evaluate never returns an
// error.
type Fallback struct {
	primary Judge
	local   Judge
	timeout time.Duration
	events  store.JudgeEventRepo
}

// WithFallback wraps primary. events may be nil, in which case fallbacks
// are only logged.
func WithFallback(primary Judge, timeout time.Duration, events store.JudgeEventRepo) *Fallback {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fallback{primary: primary, local: Local{}, timeout: timeout, events: events}
}

func (f *Fallback) Evaluate(ctx context.Context, term terms.Term, answer string) (Verdict, error) {
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	v, err := f.primary.Evaluate(callCtx, term, answer)
	cancel()
	if err == nil {
		return v, nil
	}

	log.Printf("judge: fallback for %q: %v", term.Term, err)
	v, _ = f.local.Evaluate(ctx, term, answer)
	v.Source = SourceFallback
	f.record(ctx, term, answer, start, err)
	return v, nil
}

func (f *Fallback) record(ctx context.Context, term terms.Term, answer string, start time.Time, cause error) {
	if f.events == nil {
		return
	}
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	_, err := f.events.Append(recordCtx, store.JudgeEvent{
		Timestamp:    start,
		Provider:     "local",
		Model:        "exact-match",
		Purpose:      "judge-fallback",
		Term:         term.Term,
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      false,
		Fallback:     true,
		ErrorMessage: cause.Error(),
		RequestBody:  answer,
	})
	if err != nil {
		log.Printf("judge: failed to record fallback event: %v", err)
	}
}
