package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/retry"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "flight-booking:session:"

// RedisConfig holds the connection settings of the Redis store.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// Redis stores sessions as JSON strings with a TTL renewed on every save,
// so several server instances can serve the same results page. Update runs
// as a WATCH/MULTI transaction and retries when another writer got there first.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  retry.Config
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWithClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, retry: retry.ConflictConfig}
}


func (r *Redis) key(id string) string {
	return r.prefix + id
}

// getter is satisfied by both the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Get loads and decodes the session.
func (r *Redis) Get(ctx context.Context, id string) (*domain.Session, error) {
	return r.load(ctx, r.client, id)
}

func (r *Redis) load(ctx context.Context, g getter, id string) (*domain.Session, error) {
	data, err := g.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

// Save encodes the session and renews its TTL. A non-positive TTL keeps it forever.
func (r *Redis) Save(ctx context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.expiry()).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", s.ID, err)
	}
	return nil
}

// Update watches the session key, applies fn and writes the result in a
// MULTI block. If the key changed after it was read, EXEC fails with
// redis.TxFailedErr and the whole read-apply-write runs again on fresh data.
func (r *Redis) Update(ctx context.Context, id string, fn func(*domain.Session) error) error {
	key := r.key(id)
	txf := func(tx *redis.Tx) error {
		s, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode session %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.expiry())
			return nil
		})
		return err
	}

	policy := r.retry.WithRetryIf(func(err error) bool {
		return errors.Is(err, redis.TxFailedErr)
	})
	err := retry.Do(ctx, func() error {
		return r.client.Watch(ctx, txf, key)
	}, policy)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s after %d attempts", domain.ErrSessionConflict, id, policy.MaxAttempts)
	}
	return err
}

func (r *Redis) expiry() time.Duration {
	if r.ttl < 0 {
		return 0
	}
	return r.ttl
}

// Delete removes the session.
func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", id, err)
	}
	return nil
}

// Ping checks the connection, for health reporting.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ domain.SessionStore = (*Redis)(nil)
