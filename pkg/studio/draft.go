package studio

import (
	"context"
	"errors"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// DraftKeyPrefix namespaces per-user draft keys in the shared store.
const DraftKeyPrefix = "flashcards:draft:"

// DraftStore persists the in-progress source text so it survives a reload.
// Load returns "" with no error when no draft exists.
type DraftStore interface {
	Save(ctx context.Context, text string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// RedisDraftStore keeps the draft under a single well-known key in Redis.
type RedisDraftStore struct {
	rdb *redis.Client
	key string
}

func NewRedisDraftStore(rdb *redis.Client, key string) *RedisDraftStore {
	return &RedisDraftStore{rdb: rdb, key: key}
}

func (s *RedisDraftStore) Save(ctx context.Context, text string) error {
	return s.rdb.Set(ctx, s.key, text, 0).Err()
}

func (s *RedisDraftStore) Load(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisDraftStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}

// MemoryDraftStore is a process-local store for tests and the terminal
// front-end, backed by go-cache with no expiration.
type MemoryDraftStore struct {
	cache *cache.Cache
	key   string
}

func NewMemoryDraftStore(key string) *MemoryDraftStore {
	return &MemoryDraftStore{
		cache: cache.New(cache.NoExpiration, 0),
		key:   key,
	}
}

func (s *MemoryDraftStore) Save(ctx context.Context, text string) error {
	s.cache.Set(s.key, text, cache.NoExpiration)
	return nil
}

func (s *MemoryDraftStore) Load(ctx context.Context) (string, error) {
	if x, found := s.cache.Get(s.key); found {
		return x.(string), nil
	}
	return "", nil
}

func (s *MemoryDraftStore) Clear(ctx context.Context) error {
	s.cache.Delete(s.key)
	return nil
}
