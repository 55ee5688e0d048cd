package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKeyPrefix = "grievance:verification:"

// RedisTokenStore keeps outstanding tokens in Redis with a native TTL.
// Add uses SETNX and Take uses GETDEL, so both are single atomic commands.
type RedisTokenStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisTokenStore(client redis.UniversalClient, prefix string) *RedisTokenStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisTokenStore{client: client, prefix: prefix}
}

// NewRedisClient parses a redis:// URL and checks the server is reachable
func NewRedisClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

func (s *RedisTokenStore) key(value string) string {
	return s.prefix + hashToken(value)
}

func (s *RedisTokenStore) Add(ctx context.Context, token Token) (bool, error) {
	ttl := token.ExpiresAt.Sub(token.IssuedAt)
	if ttl <= 0 {
		return false, fmt.Errorf("token ttl must be positive")
	}

	data, err := json.Marshal(token)
	if err != nil {
		return false, err
	}

	ok, err := s.client.SetNX(ctx, s.key(token.Value), data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store token: %w", err)
	}
	return ok, nil
}

func (s *RedisTokenStore) Take(ctx context.Context, value string) (Token, error) {
	data, err := s.client.GetDel(ctx, s.key(value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Token{}, ErrTokenNotFound
		}
		return Token{}, fmt.Errorf("failed to take token: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return Token{}, fmt.Errorf("failed to decode token: %w", err)
	}
	token.Value = value
	return token, nil
}

func (s *RedisTokenStore) Remove(ctx context.Context, value string) error {
	return s.client.Del(ctx, s.key(value)).Err()
}

// SweepExpired is a no-op: Redis expires keys itself
func (s *RedisTokenStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
