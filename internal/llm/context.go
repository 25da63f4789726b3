package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	subjectKey contextKey = "llm_subject"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithSubject attaches the term being judged to the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFrom returns the subject set by WithSubject, or "".
func SubjectFrom(ctx context.Context) string {
	v, _ := ctx.Value(subjectKey).(string)
	return v
}
