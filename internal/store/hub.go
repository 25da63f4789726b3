package store

import (
	"context"
	"log"
	"sync"
)

// loadFunc materializes a collection for subscribers.
type loadFunc func(ctx context.Context, collection string) ([]Document, error)

// hub fans change notifications out to collection subscribers. A notification
// only marks a subscriber dirty; the subscriber reloads the collection itself,
// so a slow callback coalesces bursts instead of queueing stale snapshots.
type hub struct {
	load loadFunc

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

type subscriber struct {
	dirty chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newHub(load loadFunc) *hub {
	return &hub{
		load: load,
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

func (h *hub) subscribe(ctx context.Context, collection string, fn func([]Document)) func() {
	s := &subscriber{
		dirty: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	s.dirty <- struct{}{}

	h.mu.Lock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[*subscriber]struct{})
	}
	h.subs[collection][s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		s.once.Do(func() {
			h.mu.Lock()
			delete(h.subs[collection], s)
			if len(h.subs[collection]) == 0 {
				delete(h.subs, collection)
			}
			h.mu.Unlock()
			close(s.done)
		})
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-s.done:
				return
			case <-s.dirty:
				docs, err := h.load(ctx, collection)
				if err != nil {
					if ctx.Err() == nil {
						log.Printf("store: refresh %s: %v", collection, err)
					}
					continue
				}
				select {
				case <-s.done:
					return
				default:
				}
				fn(docs)
			}
		}
	}()

	return cancel
}

// notify marks every subscriber of collection dirty.
func (h *hub) notify(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[collection] {
		select {
		case s.dirty <- struct{}{}:
		default:
		}
	}
}

// collections returns the collections that currently have subscribers.
func (h *hub) collections() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.subs))
	for c := range h.subs {
		out = append(out, c)
	}
	return out
}

// close cancels every subscription.
func (h *hub) close() {
	h.mu.Lock()
	var all []*subscriber
	for _, set := range h.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	h.subs = make(map[string]map[*subscriber]struct{})
	h.mu.Unlock()

	for _, s := range all {
		s.once.Do(func() { close(s.done) })
	}
}
