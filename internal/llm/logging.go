package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhisek/lexicon/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as a judge event.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.JudgeEventRepo
}

// WithLogging wraps a Provider with event logging. provider names the
// backend ("gemini", "openai", ...) in recorded events.
func WithLogging(p Provider, provider string, events store.JudgeEventRepo) Provider {
	return &LoggingProvider{inner: p, provider: provider, events: events}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	e := store.JudgeEvent{
		Timestamp:   start,
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		Term:        SubjectFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		e.InputTokens = resp.Usage.InputTokens
		e.OutputTokens = resp.Usage.OutputTokens
		e.Model = resp.Model
		e.ResponseBody = string(resp.Content)
	}
	if err != nil {
		e.ErrorMessage = err.Error()
	}

	// The judge call may already be past its deadline; recording must not
	// depend on it.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if _, logErr := l.events.Append(recordCtx, e); logErr != nil {
		log.Printf("llm: failed to record request event: %v", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	b.WriteString("[user]\n")
	b.WriteString(req.Prompt)
	b.WriteString("\n\n")

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}
