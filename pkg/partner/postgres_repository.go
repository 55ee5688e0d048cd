package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPartnerRepository implements PartnerRepository using PostgreSQL.
// Schema lives in migrations/grievance_db.sql.
type PostgresPartnerRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPartnerRepository(db *pgxpool.Pool) (*PostgresPartnerRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresPartnerRepository{db: db}, nil
}

// MarkVerified inserts the record unless it exists, then returns the stored row.
// The insert and the read run in one statement so racing callers see the same row.
func (r *PostgresPartnerRepository) MarkVerified(ctx context.Context, email string) (VerifiedPartner, error) {
	key := NormalizeEmail(email)
	if key == "" {
		return VerifiedPartner{}, ErrInvalidEmail
	}

	p := newVerifiedPartner(key)
	query := `
		WITH ins AS (
			INSERT INTO verified_partners (id, email, verified, verified_at)
			VALUES ($1, $2, TRUE, $3)
			ON CONFLICT (email) DO NOTHING
			RETURNING id, email, verified, verified_at
		)
		SELECT id, email, verified, verified_at FROM ins
		UNION ALL
		SELECT id, email, verified, verified_at FROM verified_partners WHERE email = $2
		LIMIT 1
	`

	var out VerifiedPartner
	err := r.db.QueryRow(ctx, query, p.ID, p.Email, p.VerifiedAt).Scan(
		&out.ID,
		&out.Email,
		&out.Verified,
		&out.VerifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// A concurrent insert committed after this statement's snapshot
		return r.GetPartner(ctx, key)
	}
	if err != nil {
		return VerifiedPartner{}, fmt.Errorf("failed to mark partner verified: %w", err)
	}
	out.VerifiedAt = out.VerifiedAt.UTC()
	return out, nil
}

func (r *PostgresPartnerRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM verified_partners WHERE email = $1 AND verified)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, NormalizeEmail(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check partner: %w", err)
	}
	return exists, nil
}

func (r *PostgresPartnerRepository) GetPartner(ctx context.Context, email string) (VerifiedPartner, error) {
	query := `
		SELECT id, email, verified, verified_at
		FROM verified_partners
		WHERE email = $1
	`

	var p VerifiedPartner
	err := r.db.QueryRow(ctx, query, NormalizeEmail(email)).Scan(
		&p.ID,
		&p.Email,
		&p.Verified,
		&p.VerifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VerifiedPartner{}, ErrPartnerNotFound
		}
		return VerifiedPartner{}, fmt.Errorf("failed to get partner: %w", err)
	}
	p.VerifiedAt = p.VerifiedAt.UTC()
	return p, nil
}
