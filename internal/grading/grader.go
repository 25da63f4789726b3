// Package grading decides whether a submitted answer is correct under the
// rules of the active game mode.
package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lexicon/internal/judge"
	"github.com/abhisek/lexicon/internal/mode"
	"github.com/abhisek/lexicon/internal/terms"
)

// ErrEmptyAnswer is returned for a blank free-text submission. It is raised
// before any judge call.
var ErrEmptyAnswer = errors.New("answer is empty")

// Result is the outcome of grading one answer.
type Result struct {
	Correct     bool
	Explanation string
	Source      judge.Source
}

// Grader applies the choice policy for choice-based modes and delegates
// free-text answers to a judge.
type Grader struct {
	judge judge.Judge
}

// New creates a Grader. A nil judge grades free text with the local
// case-insensitive match.
func New(j judge.Judge) *Grader {
	if j == nil {
		j = judge.Local{}
	}
	return &Grader{judge: j}
}

// Validate rejects answers that must not be graded at all.
func Validate(m mode.Mode, answer string) error {
	if !m.IsChoiceBased() && strings.TrimSpace(answer) == "" {
		return ErrEmptyAnswer
	}
	return nil
}

// Choice grades a selected option: exact equality with the translation.
func Choice(term terms.Term, option string) Result {
	return Result{Correct: option == term.Translation}
}

// Grade grades answer for term under mode m. Choice-based modes never fail.
func (g *Grader) Grade(ctx context.Context, m mode.Mode, term terms.Term, answer string) (Result, error) {
	if err := Validate(m, answer); err != nil {
		return Result{}, err
	}
	if m.IsChoiceBased() {
		return Choice(term, answer), nil
	}

	v, err := g.judge.Evaluate(ctx, term, answer)
	if err != nil {
		return Result{}, fmt.Errorf("grade %q: %w", term.Term, err)
	}
	return Result{Correct: v.Correct, Explanation: v.Explanation, Source: v.Source}, nil
}
