package partner

import (
	"context"
	"sync"
)

// MemoryPartnerRepository keeps records in a map. Records do not survive a restart.
type MemoryPartnerRepository struct {
	partners map[string]VerifiedPartner
	mutex    sync.RWMutex
}

func NewMemoryPartnerRepository() *MemoryPartnerRepository {
	return &MemoryPartnerRepository{
		partners: make(map[string]VerifiedPartner),
	}
}

func (r *MemoryPartnerRepository) MarkVerified(ctx context.Context, email string) (VerifiedPartner, error) {
	key := NormalizeEmail(email)
	if key == "" {
		return VerifiedPartner{}, ErrInvalidEmail
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if existing, ok := r.partners[key]; ok {
		return existing, nil
	}
	p := newVerifiedPartner(key)
	r.partners[key] = p
	return p, nil
}

func (r *MemoryPartnerRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.partners[NormalizeEmail(email)]
	return ok, nil
}

func (r *MemoryPartnerRepository) GetPartner(ctx context.Context, email string) (VerifiedPartner, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.partners[NormalizeEmail(email)]
	if !ok {
		return VerifiedPartner{}, ErrPartnerNotFound
	}
	return p, nil
}
