package partner

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// RepositoryConfig contains configuration for creating a partner repository
type RepositoryConfig struct {
	// Pool is required for PostgreSQL repositories
	Pool *pgxpool.Pool
	// Collection is required for MongoDB repositories
	Collection *mongo.Collection
	// DataDir is required for file-based repositories
	DataDir string
	// Cache wraps the repository with CachedPartnerRepository
	Cache bool
}

// NewPartnerRepository creates a partner repository based on the persistence type
func NewPartnerRepository(ctx context.Context, persistenceType string, config RepositoryConfig) (PartnerRepository, error) {
	repo, err := newRepository(ctx, persistenceType, config)
	if err != nil {
		return nil, err
	}
	if config.Cache {
		return NewCachedPartnerRepository(repo), nil
	}
	return repo, nil
}

func newRepository(ctx context.Context, persistenceType string, config RepositoryConfig) (PartnerRepository, error) {
	switch persistenceType {
	case "memory":
		return NewMemoryPartnerRepository(), nil
	case "file":
		if config.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file repository")
		}
		return NewFilePartnerRepository(config.DataDir)
	case "postgres", "postgresql":
		if config.Pool == nil {
			return nil, fmt.Errorf("pool required for postgres repository")
		}
		return NewPostgresPartnerRepository(config.Pool)
	case "mongo", "mongodb":
		if config.Collection == nil {
			return nil, fmt.Errorf("collection required for mongo repository")
		}
		return NewMongoPartnerRepository(ctx, config.Collection)
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: memory, file, postgres, mongo)", persistenceType)
	}
}
