package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAccountNotFound indicates the account does not exist or is inactive.
var ErrAccountNotFound = errors.New("auth: account not found")

// Repository defines persistence operations for the auth module.
type Repository interface {
	// FindByUsername fetches an account by tenant and username regardless
	// of its active flag; the service decides how inactivity is surfaced.
	FindByUsername(ctx context.Context, tenantID, username string) (*Account, error)
	// GetActiveAccount is the liveness check: it returns the account only
	// when it still exists and is active, with current mutable attributes.
	GetActiveAccount(ctx context.Context, id, tenantID string) (*Account, error)
	UpdatePassword(ctx context.Context, id, tenantID, passwordHash string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, tenant_id, COALESCE(store_id, ''), username, full_name, password_hash, level, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.TenantID, &a.StoreID, &a.Username, &a.FullName, &a.PasswordHash, &a.Level, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByUsername fetches an account by tenant and username.
func (r *PGRepository) FindByUsername(ctx context.Context, tenantID, username string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND username = $2`
	return scanAccount(r.pool.QueryRow(ctx, query, tenantID, username))
}

// GetActiveAccount returns the account only when it is still active.
func (r *PGRepository) GetActiveAccount(ctx context.Context, id, tenantID string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND tenant_id = $2 AND active = TRUE`
	return scanAccount(r.pool.QueryRow(ctx, query, id, tenantID))
}

// UpdatePassword replaces the stored password hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, id, tenantID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = $2 WHERE id = $3 AND tenant_id = $4`,
		passwordHash, time.Now().UTC(), id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
