package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// judgeEventRepo stores events under time-ordered UUIDv7 IDs, so key order
// is append order.
type judgeEventRepo struct {
	docs  DocStore
	paths Paths
	now   func() time.Time
}

// NewJudgeEventRepo returns a JudgeEventRepo over docs.
func NewJudgeEventRepo(docs DocStore, paths Paths) JudgeEventRepo {
	return &judgeEventRepo{docs: docs, paths: paths, now: time.Now}
}

func (r *judgeEventRepo) Append(ctx context.Context, e JudgeEvent) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate event id: %w", err)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now()
	}
	fields, err := toFields(e)
	if err != nil {
		return "", fmt.Errorf("encode judge event: %w", err)
	}
	if err := r.docs.Set(ctx, r.paths.JudgeEvent(id.String()), fields, false); err != nil {
		return "", fmt.Errorf("save judge event: %w", err)
	}
	return id.String(), nil
}

func (r *judgeEventRepo) List(ctx context.Context, opts QueryOpts) ([]JudgeEvent, error) {
	docs, err := r.docs.List(ctx, r.paths.JudgeEvents())
	if err != nil {
		return nil, fmt.Errorf("load judge events: %w", err)
	}

	var out []JudgeEvent
	for i := len(docs) - 1; i >= 0; i-- {
		var e JudgeEvent
		if err := fromFields(docs[i].Fields, &e); err != nil {
			return nil, fmt.Errorf("decode judge event %s: %w", docs[i].ID(), err)
		}
		e.ID = docs[i].ID()

		if opts.Purpose != "" && e.Purpose != opts.Purpose {
			continue
		}
		if !opts.From.IsZero() && e.Timestamp.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && e.Timestamp.After(opts.To) {
			continue
		}
		out = append(out, e)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (r *judgeEventRepo) Get(ctx context.Context, id string) (JudgeEvent, error) {
	doc, err := r.docs.Get(ctx, r.paths.JudgeEvent(id))
	if err != nil {
		return JudgeEvent{}, fmt.Errorf("load judge event: %w", err)
	}
	var e JudgeEvent
	if err := fromFields(doc.Fields, &e); err != nil {
		return JudgeEvent{}, fmt.Errorf("decode judge event: %w", err)
	}
	e.ID = id
	return e, nil
}
