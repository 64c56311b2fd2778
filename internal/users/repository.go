package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/db"
	"github.com/vendapos/venda/internal/platform/httpx"
)

var scopeColumns = authz.ColumnMap{TenantColumn: "tenant_id"}

type Repository interface {
	List(ctx context.Context, scope authz.AccessScope) ([]User, error)
	Get(ctx context.Context, scope authz.AccessScope, id string) (User, error)
	Create(ctx context.Context, u User, passwordHash string) (User, error)
	Update(ctx context.Context, scope authz.AccessScope, id string, u User) error
	SetActive(ctx context.Context, scope authz.AccessScope, id string, active bool) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const userColumns = `id, tenant_id, COALESCE(store_id, ''), username, full_name, level, active, created_at, updated_at`

func (r *repository) List(ctx context.Context, scope authz.AccessScope) ([]User, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+userColumns+` FROM accounts`, nil, scope, scopeColumns)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, scoped.Query+" ORDER BY username ASC", scoped.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, scope authz.AccessScope, id string) (User, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+userColumns+` FROM accounts WHERE id = $1`, []any{id}, scope, scopeColumns)
	if err != nil {
		return User{}, err
	}
	u, err := scanUser(r.db.QueryRow(ctx, scoped.Query, scoped.Params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, httpx.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *repository) Create(ctx context.Context, u User, passwordHash string) (User, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (id, tenant_id, store_id, username, full_name, password_hash, level, active, created_at, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, TRUE, $8, $8)`,
		u.ID, u.TenantID, u.StoreID, u.Username, u.FullName, passwordHash, int(u.Level), now)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: username already taken", httpx.ErrDuplicate)
		}
		return User{}, err
	}
	u.Active = true
	u.CreatedAt = now
	u.UpdatedAt = now
	return u, nil
}

func (r *repository) Update(ctx context.Context, scope authz.AccessScope, id string, u User) error {
	base := `UPDATE accounts SET full_name = $1, store_id = NULLIF($2, ''), level = $3, updated_at = $4 WHERE id = $5`
	scoped, err := authz.ScopeQuery(base, []any{u.FullName, u.StoreID, int(u.Level), time.Now().UTC(), id}, scope, scopeColumns)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, scoped.Query, scoped.Params...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, scope authz.AccessScope, id string, active bool) error {
	base := `UPDATE accounts SET active = $1, updated_at = $2 WHERE id = $3`
	scoped, err := authz.ScopeQuery(base, []any{active, time.Now().UTC(), id}, scope, scopeColumns)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, scoped.Query, scoped.Params...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	var level int
	err := row.Scan(&u.ID, &u.TenantID, &u.StoreID, &u.Username, &u.FullName, &level, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	u.Level = authz.Level(level)
	return u, err
}

var _ Repository = (*repository)(nil)
