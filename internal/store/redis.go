package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const updatedAtField = "_updated_at"

// Redis is a DocStore shared between processes. Each document is a hash
// whose fields hold JSON-encoded values:
//
//	HSET doc:{key} {field} {json} _updated_at {unix nanos}
//	SADD col:{collection} {key}
//	PUBLISH changes:{collection} {key}
type Redis struct {
	client *redis.Client
	hub    *hub
	sf     singleflight.Group
	now    func() time.Time
}

// OpenRedis connects to the server at addr and verifies it is reachable.
func OpenRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedis(client), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	r := &Redis{client: client, now: time.Now}
	r.hub = newHub(r.loadShared)
	return r
}

func (r *Redis) Get(ctx context.Context, key string) (Document, error) {
	raw, err := r.client.HGetAll(ctx, r.docKey(key)).Result()
	if err != nil {
		return Document{}, fmt.Errorf("get %s: %w", key, err)
	}
	if len(raw) == 0 {
		return Document{}, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	return decodeHash(key, raw)
}

func (r *Redis) Set(ctx context.Context, key string, fields map[string]any, merge bool) error {
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", key, k, err)
		}
		values[k] = string(b)
	}
	values[updatedAtField] = strconv.FormatInt(r.now().UnixNano(), 10)

	collection := Parent(key)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if !merge {
			pipe.Del(ctx, r.docKey(key))
		}
		pipe.HSet(ctx, r.docKey(key), values)
		pipe.SAdd(ctx, r.collectionKey(collection), key)
		pipe.Publish(ctx, r.channel(collection), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context, collection string) ([]Document, error) {
	keys, err := r.client.SMembers(ctx, r.collectionKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	sort.Strings(keys)

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.HGetAll(ctx, r.docKey(k))
	}
	if len(keys) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
	}

	out := make([]Document, 0, len(keys))
	for i, k := range keys {
		raw := cmds[i].Val()
		if len(raw) == 0 {
			// Index entry outlived its document.
			continue
		}
		doc, err := decodeHash(k, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	collection := Parent(key)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.docKey(key))
		pipe.SRem(ctx, r.collectionKey(collection), key)
		pipe.Publish(ctx, r.channel(collection), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Subscribe listens on the collection's change channel, so writes from
// other processes are observed too.
func (r *Redis) Subscribe(ctx context.Context, collection string, fn func([]Document)) (func(), error) {
	ps := r.client.Subscribe(ctx, r.channel(collection))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", collection, err)
	}

	subCtx, stop := context.WithCancel(ctx)
	cancelHub := r.hub.subscribe(subCtx, collection, fn)

	go func() {
		ch := ps.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				// A load already in flight may predate this change.
				r.sf.Forget(collection)
				r.hub.notify(collection)
			}
		}
	}()

	return func() {
		stop()
		cancelHub()
		if err := ps.Close(); err != nil {
			log.Printf("store: close subscription %s: %v", collection, err)
		}
	}, nil
}

// Close cancels subscriptions and closes the client.
func (r *Redis) Close() error {
	r.hub.close()
	return r.client.Close()
}

// loadShared collapses concurrent refreshes of the same collection into a
// single round trip.
func (r *Redis) loadShared(ctx context.Context, collection string) ([]Document, error) {
	v, err, _ := r.sf.Do(collection, func() (any, error) {
		return r.List(ctx, collection)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Document), nil
}

func (r *Redis) docKey(key string) string {
	return "doc:" + key
}

func (r *Redis) collectionKey(collection string) string {
	return "col:" + collection
}

func (r *Redis) channel(collection string) string {
	return "changes:" + collection
}

func decodeHash(key string, raw map[string]string) (Document, error) {
	doc := Document{Key: key, Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == updatedAtField {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				doc.UpdatedAt = time.Unix(0, n)
			}
			continue
		}
		var val any
		if err := json.Unmarshal([]byte(v), &val); err != nil {
			return Document{}, fmt.Errorf("decode %s.%s: %w", key, k, err)
		}
		doc.Fields[k] = val
	}
	return doc, nil
}
