package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotPersisted is returned by Load when no session has been saved
// (or it was cleared). Callers treat it as "start anonymous".
var ErrNotPersisted = errors.New("session: not persisted")

// Store persists the single current session across process restarts.
// Save overwrites, Clear removes; both are idempotent.
type Store interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the encoded session in process memory. It is the
// default store and the one tests use.
type MemoryStore struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements [Store].
func (m *MemoryStore) Load(context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blob == nil {
		return Session{}, ErrNotPersisted
	}
	return Decode(m.blob)
}

// Save implements [Store].
func (m *MemoryStore) Save(_ context.Context, s Session) error {
	blob, err := Encode(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.blob = blob
	m.mu.Unlock()
	return nil
}

// Clear implements [Store].
func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.blob = nil
	m.mu.Unlock()
	return nil
}

// RedisStore persists the session under a single key with a TTL, so an
// abandoned session eventually expires on its own.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisStore builds a store writing to key (default
// "sc:session:current") with the given TTL (0 disables expiry).
func NewRedisStore(client redis.UniversalClient, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = "sc:session:current"
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}

// Load implements [Store].
func (r *RedisStore) Load(ctx context.Context) (Session, error) {
	blob, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotPersisted
		}
		return Session{}, fmt.Errorf("session: load: %w", err)
	}
	return Decode(blob)
}

// Save implements [Store].
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	blob, err := Encode(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// Clear implements [Store].
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}
