// Package session provides redis-backed storage for web session page trees.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
)

// Ensure RedisStore implements the interface.
var _ driven.SessionStore = (*RedisStore)(nil)

// DefaultTTL is how long an idle session tree is kept.
const DefaultTTL = 12 * time.Hour

// RestoreFunc derives the full tree state (index and selectable tree)
// from a stored forest.
type RestoreFunc func(spaceKey, rootPageID string, pageCount int, roots []*domain.PageNode) *domain.TreeState

// storedTree is the JSON document kept per session. Only the forest is
// stored; index and selectable tree are derived again on read.
type storedTree struct {
	SpaceKey   string             `json:"space_key"`
	RootPageID string             `json:"root_page_id,omitempty"`
	PageCount  int                `json:"page_count"`
	LoadedAt   time.Time          `json:"loaded_at"`
	Roots      []*domain.PageNode `json:"roots"`
}

// RedisStore implements driven.SessionStore using Redis.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	restore RestoreFunc
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(redisURL string, restore RestoreFunc) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, restore), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client, restore RestoreFunc) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  "confclone:tree:",
		ttl:     DefaultTTL,
		restore: restore,
	}
}

// key generates the Redis key for a session.
func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// SaveTree replaces the tree of a session and refreshes its expiry.
func (s *RedisStore) SaveTree(ctx context.Context, sessionID string, state *domain.TreeState) error {
	if sessionID == "" || state == nil {
		return domain.ErrInvalidInput
	}

	jsonData, err := json.Marshal(storedTree{
		SpaceKey:   state.SpaceKey,
		RootPageID: state.RootPageID,
		PageCount:  state.PageCount,
		LoadedAt:   state.LoadedAt,
		Roots:      state.Roots,
	})
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("save tree: %w", err)
	}
	return nil
}

// GetTree returns the tree of a session.
func (s *RedisStore) GetTree(ctx context.Context, sessionID string) (*domain.TreeState, error) {
	jsonData, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup tree: %w", err)
	}

	var stored storedTree
	if err := json.Unmarshal(jsonData, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal tree: %w", err)
	}

	state := s.restore(stored.SpaceKey, stored.RootPageID, stored.PageCount, stored.Roots)
	if !stored.LoadedAt.IsZero() {
		state.LoadedAt = stored.LoadedAt
	}
	return state, nil
}

// Delete discards a session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
