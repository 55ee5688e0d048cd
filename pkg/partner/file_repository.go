package partner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const partnersFile = "verified_partners.json"

// FilePartnerRepository implements PartnerRepository using file-based storage
type FilePartnerRepository struct {
	dataDir  string
	partners map[string]VerifiedPartner // Key: normalized email
	mutex    sync.RWMutex
}

// partnerData represents the structure of data stored in the JSON file
type partnerData struct {
	Partners []VerifiedPartner `json:"partners"`
}

// NewFilePartnerRepository creates a new file-based partner repository
func NewFilePartnerRepository(dataDir string) (*FilePartnerRepository, error) {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FilePartnerRepository{
		dataDir:  dataDir,
		partners: make(map[string]VerifiedPartner),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// MarkVerified creates the record if missing and persists it before returning
func (r *FilePartnerRepository) MarkVerified(ctx context.Context, email string) (VerifiedPartner, error) {
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

	if err := r.save(); err != nil {
		delete(r.partners, key)
		return VerifiedPartner{}, fmt.Errorf("failed to save: %w", err)
	}

	return p, nil
}

func (r *FilePartnerRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.partners[NormalizeEmail(email)]
	return ok, nil
}

func (r *FilePartnerRepository) GetPartner(ctx context.Context, email string) (VerifiedPartner, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.partners[NormalizeEmail(email)]
	if !ok {
		return VerifiedPartner{}, ErrPartnerNotFound
	}
	return p, nil
}

// load reads partner data from file
func (r *FilePartnerRepository) load() error {
	filePath := filepath.Join(r.dataDir, partnersFile)

	// If file doesn't exist, start with an empty map
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var pd partnerData
	if err := json.Unmarshal(data, &pd); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	r.partners = make(map[string]VerifiedPartner, len(pd.Partners))
	for _, p := range pd.Partners {
		r.partners[NormalizeEmail(p.Email)] = p
	}

	return nil
}

// save writes partner data to file atomically
func (r *FilePartnerRepository) save() error {
	partners := make([]VerifiedPartner, 0, len(r.partners))
	for _, p := range r.partners {
		partners = append(partners, p)
	}

	jsonData, err := json.MarshalIndent(partnerData{Partners: partners}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Write to temp file first
	tempFile := filepath.Join(r.dataDir, partnersFile+".tmp")
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Atomic rename
	finalFile := filepath.Join(r.dataDir, partnersFile)
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
