package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process DocStore. Fields are stored as JSON so callers
// observe the same value types as with the persistent backends.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]memoryDoc
	hub  *hub
	now  func() time.Time
}

type memoryDoc struct {
	data      []byte
	updatedAt time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	m := &Memory{
		docs: make(map[string]memoryDoc),
		now:  time.Now,
	}
	m.hub = newHub(m.List)
	return m
}

func (m *Memory) Get(_ context.Context, key string) (Document, error) {
	m.mu.RLock()
	d, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return Document{}, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	return decodeDocument(key, d.data, d.updatedAt)
}

func (m *Memory) Set(_ context.Context, key string, fields map[string]any, merge bool) error {
	m.mu.Lock()
	next := fields
	if existing, ok := m.docs[key]; ok && merge {
		var cur map[string]any
		if err := json.Unmarshal(existing.data, &cur); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("decode %s: %w", key, err)
		}
		next = mergeFields(cur, fields)
	}
	data, err := json.Marshal(next)
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.docs[key] = memoryDoc{data: data, updatedAt: m.now()}
	m.mu.Unlock()

	m.hub.notify(Parent(key))
	return nil
}

func (m *Memory) List(_ context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for key, d := range m.docs {
		if Parent(key) != collection {
			continue
		}
		doc, err := decodeDocument(key, d.data, d.updatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	_, existed := m.docs[key]
	delete(m.docs, key)
	m.mu.Unlock()

	if existed {
		m.hub.notify(Parent(key))
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, collection string, fn func([]Document)) (func(), error) {
	return m.hub.subscribe(ctx, collection, fn), nil
}

func (m *Memory) Close() error {
	m.hub.close()
	return nil
}

func decodeDocument(key string, data []byte, updatedAt time.Time) (Document, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return Document{Key: key, Fields: fields, UpdatedAt: updatedAt}, nil
}
