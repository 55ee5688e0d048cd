package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepository counts IsVerified calls that reach the store
type countingRepository struct {
	*MemoryPartnerRepository
	calls int
	err   error
}

func (c *countingRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.MemoryPartnerRepository.IsVerified(ctx, email)
}

func TestCachedPartnerRepository_PositiveAnswersOnly(t *testing.T) {
	ctx := context.Background()
	store := &countingRepository{MemoryPartnerRepository: NewMemoryPartnerRepository()}
	cache := NewCachedPartnerRepository(store)

	// Negatives are never cached
	for i := 0; i < 2; i++ {
		ok, err := cache.IsVerified(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 2, store.calls)

	// Verified elsewhere, e.g. by another process sharing the store
	_, err := store.MarkVerified(ctx, "bob@example.com")
	require.NoError(t, err)

	ok, err := cache.IsVerified(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, store.calls)

	ok, err = cache.IsVerified(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, store.calls, "positive answer should come from cache")
}

func TestCachedPartnerRepository_MarkVerifiedWarmsCache(t *testing.T) {
	ctx := context.Background()
	store := &countingRepository{MemoryPartnerRepository: NewMemoryPartnerRepository()}
	cache := NewCachedPartnerRepository(store)

	_, err := cache.MarkVerified(ctx, "carol@example.com")
	require.NoError(t, err)

	ok, err := cache.IsVerified(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, store.calls)
}

func TestCachedPartnerRepository_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	cache := NewCachedPartnerRepository(&countingRepository{MemoryPartnerRepository: NewMemoryPartnerRepository(), err: storeErr})

	_, err := cache.IsVerified(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, storeErr)
}
