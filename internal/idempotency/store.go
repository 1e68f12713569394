// Package idempotency remembers the outcome of requests that carry an
// Idempotency-Key so retries replay the first response instead of repeating it.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// State is the outcome of reserving a key.
type State int

const (
	// StateReserved means the caller owns the key and must Complete or Release it.
	StateReserved State = iota
	// StateInFlight means another request holds the key.
	StateInFlight
	// StateCompleted means a stored response is available for replay.
	StateCompleted
)

const pendingMarker = "pending"

// Response is a stored HTTP response.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store keeps idempotency records.
type Store interface {
	Reserve(ctx context.Context, key string) (State, *Response, error)
	Complete(ctx context.Context, key string, resp Response) error
	Release(ctx context.Context, key string) error
}

// RedisStore keeps records in Redis under a namespace with a fixed TTL.
type RedisStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	if redisURL == "" {
		return nil, errors.New("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, namespace: "ecomm:idempotency", ttl: ttl}
}

func (s *RedisStore) key(k string) string {
	return s.namespace + ":" + k
}

// Reserve claims key, or reports what already holds it.
func (s *RedisStore) Reserve(ctx context.Context, key string) (State, *Response, error) {
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, s.key(key), pendingMarker, s.ttl).Result()
		if err != nil {
			return 0, nil, err
		}
		if ok {
			return StateReserved, nil, nil
		}

		val, err := s.client.Get(ctx, s.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return 0, nil, err
		}

		if string(val) == pendingMarker {
			return StateInFlight, nil, nil
		}

		var resp Response
		if err := json.Unmarshal(val, &resp); err != nil {
			return 0, nil, fmt.Errorf("decode stored response: %w", err)
		}
		return StateCompleted, &resp, nil
	}
	return StateInFlight, nil, nil
}

// Complete stores the response for replay.
func (s *RedisStore) Complete(ctx context.Context, key string, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), data, s.ttl).Err()
}

// Release frees key so the request can be retried.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
