package judge

import (
	"context"
	"strings"

	"github.com/abhisek/lexicon/internal/terms"
)

// Local accepts an answer that matches the term's translation ignoring case
// and surrounding whitespace.
type Local struct{}

func (Local) Evaluate(_ context.Context, term terms.Term, answer string) (Verdict, error) {
	return Verdict{
		Correct: Match(term, answer),
		Source:  SourceLocal,
	}, nil
}

// Match reports whether answer equals the term's translation, case-insensitively.
func Match(term terms.Term, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(term.Translation))
}
