// Package judge decides whether a free-text answer is an acceptable
// translation of a term.
package judge

import (
	"context"
	"errors"

	"github.com/abhisek/lexicon/internal/terms"
)

// ErrService marks a failure of the remote judge. It is always recovered by
// the fallback decorator and never reaches the player.
var ErrService = errors.New("judge service error")

// Source identifies which judge produced a verdict.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceLocal    Source = "local"
	SourceFallback Source = "fallback"
)

// Verdict is the outcome of judging one answer.
type Verdict struct {
	Correct     bool
	Explanation string
	Source      Source
}

// Judge evaluates a free-text answer for a term.
type Judge interface {
	Evaluate(ctx context.Context, term terms.Term, answer string) (Verdict, error)
}
