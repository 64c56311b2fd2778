package tenants

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// The tenants table is the root of the isolation hierarchy: its tenant
// column is the primary key itself. A restricted scope therefore only ever
// sees its own row; root passes through and sees all of them.
var scopeColumns = authz.ColumnMap{TenantColumn: "id"}

type Repository interface {
	List(ctx context.Context, scope authz.AccessScope) ([]Tenant, error)
	Get(ctx context.Context, scope authz.AccessScope, id string) (Tenant, error)
	Create(ctx context.Context, t Tenant) (Tenant, error)
	Update(ctx context.Context, scope authz.AccessScope, id string, t Tenant) error
	Delete(ctx context.Context, scope authz.AccessScope, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const tenantColumns = `id, name, COALESCE(plan, ''), COALESCE(currency, 'IDR'), active, created_at, updated_at`

func (r *repository) List(ctx context.Context, scope authz.AccessScope) ([]Tenant, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+tenantColumns+` FROM tenants`, nil, scope, scopeColumns)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, scoped.Query+" ORDER BY name ASC", scoped.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, scope authz.AccessScope, id string) (Tenant, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, []any{id}, scope, scopeColumns)
	if err != nil {
		return Tenant{}, err
	}
	t, err := scanTenant(r.db.QueryRow(ctx, scoped.Query, scoped.Params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tenant{}, httpx.ErrNotFound
		}
		return Tenant{}, err
	}
	return t, nil
}

func (r *repository) Create(ctx context.Context, t Tenant) (Tenant, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO tenants (id, name, plan, currency, active, created_at, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $6)`,
		t.ID, t.Name, t.Plan, t.Currency, t.Active, now)
	if err != nil {
		return Tenant{}, err
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

func (r *repository) Update(ctx context.Context, scope authz.AccessScope, id string, t Tenant) error {
	base := `UPDATE tenants SET name = $1, plan = NULLIF($2, ''), currency = $3, active = $4, updated_at = $5 WHERE id = $6`
	args := []any{t.Name, t.Plan, t.Currency, t.Active, time.Now().UTC(), id}
	scoped, err := authz.ScopeQuery(base, args, scope, scopeColumns)
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

func (r *repository) Delete(ctx context.Context, scope authz.AccessScope, id string) error {
	scoped, err := authz.ScopeQuery(`DELETE FROM tenants WHERE id = $1`, []any{id}, scope, scopeColumns)
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

func scanTenant(row pgx.Row) (Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Plan, &t.Currency, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

var _ Repository = (*repository)(nil)
