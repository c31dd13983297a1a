package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "campus:"

// RedisStore keeps each collection as a single JSON array value, one request
// per operation. It satisfies the same contract as the file backend so the
// registries stay agnostic of which one is active.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore wraps an already connected client.
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger}
}

func redisKey(collection string) string {
	return redisKeyPrefix + collection
}

// Load implements Store. A missing key is initialized with seed; a value
// that fails to parse falls back to seed without overwriting it.
func (r *RedisStore) Load(ctx context.Context, collection string, seed []json.RawMessage) ([]json.RawMessage, error) {
	if seed == nil {
		seed = []json.RawMessage{}
	}
	content, err := r.client.Get(ctx, redisKey(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		if err := r.Save(ctx, collection, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", collection, err)
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(content, &docs); err != nil {
		r.logger.Warn("collection corrupt, using seed",
			zap.String("collection", collection), zap.Error(err))
		return seed, nil
	}
	if docs == nil {
		docs = []json.RawMessage{}
	}
	return docs, nil
}

// Save implements Store. A single SET keeps the replacement atomic.
func (r *RedisStore) Save(ctx context.Context, collection string, docs []json.RawMessage) error {
	if docs == nil {
		docs = []json.RawMessage{}
	}
	content, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	if err := r.client.Set(ctx, redisKey(collection), content, 0).Err(); err != nil {
		return fmt.Errorf("save collection %s: %w", collection, err)
	}
	return nil
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	docs, err := r.Load(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	return findDoc(docs, id)
}

// Query implements Store.
func (r *RedisStore) Query(ctx context.Context, collection string, filter map[string]any) ([]json.RawMessage, error) {
	docs, err := r.Load(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	return filterDocs(docs, filter), nil
}
