package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/securecart/securecart"
)

const defaultRedisPrefix = "sc:identity:"

// watchRetries bounds optimistic-lock retries on contended Updates.
const watchRetries = 16

// Redis persists identities as JSON blobs with a secondary email
// index. Construct via [NewRedis].
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps an existing client. An empty prefix defaults to
// "sc:identity:".
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) recordKey(id string) string   { return r.prefix + "id:" + id }
func (r *Redis) emailKey(email string) string { return r.prefix + "email:" + email }

func (r *Redis) FindByEmail(ctx context.Context, email string) (securecart.Identity, error) {
	id, err := r.client.Get(ctx, r.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return securecart.Identity{}, securecart.ErrIdentityNotFound
	}
	if err != nil {
		return securecart.Identity{}, fmt.Errorf("stores: email lookup: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *Redis) FindByID(ctx context.Context, id string) (securecart.Identity, error) {
	raw, err := r.client.Get(ctx, r.recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return securecart.Identity{}, securecart.ErrIdentityNotFound
	}
	if err != nil {
		return securecart.Identity{}, fmt.Errorf("stores: record lookup: %w", err)
	}

	var identity securecart.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return securecart.Identity{}, fmt.Errorf("stores: decode record %s: %w", id, err)
	}
	return identity, nil
}

func (r *Redis) Insert(ctx context.Context, identity securecart.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("stores: encode record: %w", err)
	}

	// Claim the email index first; it is the uniqueness anchor.
	claimed, err := r.client.SetNX(ctx, r.emailKey(identity.Email), identity.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("stores: claim email: %w", err)
	}
	if !claimed {
		return securecart.ErrDuplicateIdentity
	}

	stored, err := r.client.SetNX(ctx, r.recordKey(identity.ID), raw, 0).Result()
	if err == nil && !stored {
		err = securecart.ErrDuplicateIdentity
	}
	if err != nil {
		// Release the claim so the email is not orphaned.
		r.client.Del(ctx, r.emailKey(identity.Email))
		if errors.Is(err, securecart.ErrDuplicateIdentity) {
			return securecart.ErrDuplicateIdentity
		}
		return fmt.Errorf("stores: store record: %w", err)
	}
	return nil
}

// Update runs mutate inside a WATCH transaction so concurrent writers
// serialize on the record key instead of losing updates.
func (r *Redis) Update(ctx context.Context, id string, mutate func(*securecart.Identity) error) (securecart.Identity, error) {
	key := r.recordKey(id)
	var updated securecart.Identity

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return securecart.ErrIdentityNotFound
		}
		if err != nil {
			return err
		}

		var identity securecart.Identity
		if err := json.Unmarshal(raw, &identity); err != nil {
			return fmt.Errorf("stores: decode record %s: %w", id, err)
		}
		if err := mutate(&identity); err != nil {
			return err
		}

		next, err := json.Marshal(identity)
		if err != nil {
			return fmt.Errorf("stores: encode record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err == nil {
			updated = identity
		}
		return err
	}

	for i := 0; i < watchRetries; i++ {
		err := r.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return securecart.Identity{}, err
		}
		return updated, nil
	}
	return securecart.Identity{}, fmt.Errorf("stores: update %s: too much contention", id)
}
