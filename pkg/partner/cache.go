package partner

import (
	"context"
	"sync"
)

// CachedPartnerRepository memoises positive IsVerified answers in process.
// Records are never deleted, so a cached true cannot go stale; negatives always
// go to the underlying store. The cache starts empty and is not shared.
type CachedPartnerRepository struct {
	repo     PartnerRepository
	verified sync.Map // normalized email -> struct{}
}

func NewCachedPartnerRepository(repo PartnerRepository) *CachedPartnerRepository {
	return &CachedPartnerRepository{repo: repo}
}

func (c *CachedPartnerRepository) MarkVerified(ctx context.Context, email string) (VerifiedPartner, error) {
	p, err := c.repo.MarkVerified(ctx, email)
	if err != nil {
		return VerifiedPartner{}, err
	}
	c.verified.Store(p.Email, struct{}{})
	return p, nil
}

func (c *CachedPartnerRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	key := NormalizeEmail(email)
	if _, ok := c.verified.Load(key); ok {
		return true, nil
	}

	ok, err := c.repo.IsVerified(ctx, key)
	if err != nil {
		return false, err
	}
	if ok {
		c.verified.Store(key, struct{}{})
	}
	return ok, nil
}

func (c *CachedPartnerRepository) GetPartner(ctx context.Context, email string) (VerifiedPartner, error) {
	return c.repo.GetPartner(ctx, email)
}
