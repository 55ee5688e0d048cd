package verification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisTokenStore_KeysAreHashed(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := NewRedisTokenStore(client, "test:")

	now := time.Now().UTC()
	ok, err := store.Add(ctx, Token{Value: "secret-token", Email: "bob@example.com", IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	require.True(t, ok)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "test:"))
	assert.NotContains(t, keys[0], "secret-token")

	stored, err := mr.Get(keys[0])
	require.NoError(t, err)
	assert.NotContains(t, stored, "secret-token")
	assert.Contains(t, stored, "bob@example.com")
}

func TestRedisTokenStore_NativeExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := NewRedisTokenStore(client, "")

	now := time.Now().UTC()
	_, err := store.Add(ctx, Token{Value: "t1", Email: "bob@example.com", IssuedAt: now, ExpiresAt: now.Add(time.Minute)})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Take(ctx, "t1")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	n, err := store.SweepExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRedisTokenStore_AddCollision(t *testing.T) {
	ctx := context.Background()
	_, client := setupRedis(t)
	store := NewRedisTokenStore(client, "")

	now := time.Now().UTC()
	token := Token{Value: "t1", Email: "bob@example.com", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}

	ok, err := store.Add(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	token.Email = "mallory@example.com"
	ok, err = store.Add(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Take(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", got.Email)
}

func TestRedisTokenStore_NonPositiveTTL(t *testing.T) {
	_, client := setupRedis(t)
	store := NewRedisTokenStore(client, "")

	now := time.Now().UTC()
	_, err := store.Add(context.Background(), Token{Value: "t1", IssuedAt: now, ExpiresAt: now})
	assert.Error(t, err)
}

func TestRedisTokenStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:0",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
		MaxRetries:   -1,
	})
	defer client.Close()
	store := NewRedisTokenStore(client, "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	now := time.Now().UTC()
	_, err := store.Add(ctx, Token{Value: "t1", IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
	assert.Error(t, err)

	_, err = store.Take(ctx, "t1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenNotFound)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr(), "")
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(context.Background(), "://invalid-url", "")
	assert.Error(t, err)
}
