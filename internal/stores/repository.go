package stores

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// Stores belong to a tenant; there is no store-level column because the row
// itself is the store.
var scopeColumns = authz.ColumnMap{TenantColumn: "tenant_id"}

type Repository interface {
	List(ctx context.Context, scope authz.AccessScope) ([]Store, error)
	Get(ctx context.Context, scope authz.AccessScope, id string) (Store, error)
	Create(ctx context.Context, st Store) (Store, error)
	Update(ctx context.Context, scope authz.AccessScope, id string, st Store) error
	Delete(ctx context.Context, scope authz.AccessScope, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const storeColumns = `id, tenant_id, name, COALESCE(address, ''), COALESCE(phone, ''), active, created_at, updated_at`

func (r *repository) List(ctx context.Context, scope authz.AccessScope) ([]Store, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+storeColumns+` FROM stores`, nil, scope, scopeColumns)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, scoped.Query+" ORDER BY name ASC", scoped.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Store
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, st)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, scope authz.AccessScope, id string) (Store, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+storeColumns+` FROM stores WHERE id = $1`, []any{id}, scope, scopeColumns)
	if err != nil {
		return Store{}, err
	}
	st, err := scanStore(r.db.QueryRow(ctx, scoped.Query, scoped.Params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, httpx.ErrNotFound
		}
		return Store{}, err
	}
	return st, nil
}

func (r *repository) Create(ctx context.Context, st Store) (Store, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO stores (id, tenant_id, name, address, phone, active, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $7)`,
		st.ID, st.TenantID, st.Name, st.Address, st.Phone, st.Active, now)
	if err != nil {
		return Store{}, err
	}
	st.CreatedAt = now
	st.UpdatedAt = now
	return st, nil
}

func (r *repository) Update(ctx context.Context, scope authz.AccessScope, id string, st Store) error {
	base := `UPDATE stores SET name = $1, address = NULLIF($2, ''), phone = NULLIF($3, ''), active = $4, updated_at = $5 WHERE id = $6`
	args := []any{st.Name, st.Address, st.Phone, st.Active, time.Now().UTC(), id}
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
	scoped, err := authz.ScopeQuery(`DELETE FROM stores WHERE id = $1`, []any{id}, scope, scopeColumns)
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

func scanStore(row pgx.Row) (Store, error) {
	var st Store
	err := row.Scan(&st.ID, &st.TenantID, &st.Name, &st.Address, &st.Phone, &st.Active, &st.CreatedAt, &st.UpdatedAt)
	return st, err
}

var _ Repository = (*repository)(nil)
