package store

import (
	"context"
	"errors"
	"fmt"
)

type profileRepo struct {
	docs  DocStore
	paths Paths
}

// NewProfileRepo returns a ProfileRepo over docs.
func NewProfileRepo(docs DocStore, paths Paths) ProfileRepo {
	return &profileRepo{docs: docs, paths: paths}
}

func (r *profileRepo) Get(ctx context.Context, uid string) (Profile, bool, error) {
	doc, err := r.docs.Get(ctx, r.paths.Profile(uid))
	if errors.Is(err, ErrNotFound) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, fmt.Errorf("load profile: %w", err)
	}

	var p Profile
	if err := fromFields(doc.Fields, &p); err != nil {
		return Profile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return p, true, nil
}

func (r *profileRepo) Save(ctx context.Context, uid string, p Profile) error {
	fields, err := toFields(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := r.docs.Set(ctx, r.paths.Profile(uid), fields, true); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *profileRepo) SetName(ctx context.Context, uid, name string) error {
	if err := r.docs.Set(ctx, r.paths.Profile(uid), map[string]any{"name": name}, true); err != nil {
		return fmt.Errorf("save profile name: %w", err)
	}
	return nil
}

func (r *profileRepo) Delete(ctx context.Context, uid string) error {
	if err := r.docs.Delete(ctx, r.paths.Profile(uid)); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
