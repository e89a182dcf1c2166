package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
)

// PostgresStore is the production authoritative tenant store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := `
		SELECT id, subdomain, name, icon, status, tier, created_at, updated_at
		FROM tenants
		WHERE subdomain = $1
	`

	var t models.Tenant
	err := s.pool.QueryRow(ctx, query, subdomain).Scan(
		&t.ID,
		&t.Subdomain,
		&t.Name,
		&t.Icon,
		&t.Status,
		&t.Tier,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &t, nil
}

func (s *PostgresStore) Insert(ctx context.Context, t *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, subdomain, name, icon, status, tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.Subdomain, t.Name, t.Icon, t.Status, t.Tier, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on the subdomain key.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSubdomainTaken
		}
		return fmt.Errorf("failed to insert tenant: %w", err)
	}

	return nil
}

func (s *PostgresStore) Update(ctx context.Context, t *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, icon = $3, status = $4, tier = $5, updated_at = $6
		WHERE subdomain = $1
	`

	result, err := s.pool.Exec(ctx, query,
		t.Subdomain, t.Name, t.Icon, t.Status, t.Tier, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTenantNotFound
	}

	return nil
}
