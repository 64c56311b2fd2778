package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/db"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// scopeColumns maps the products table onto the isolation columns the
// query rewriter filters by. The catalog is tenant-wide: store actors see
// the whole tenant catalog, so only the tenant column is scoped.
var scopeColumns = authz.ColumnMap{TenantColumn: "tenant_id"}

type Repository interface {
	List(ctx context.Context, scope authz.AccessScope, filters ListFilters) ([]Product, error)
	Get(ctx context.Context, scope authz.AccessScope, id string) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, scope authz.AccessScope, id string, p Product) error
	Delete(ctx context.Context, scope authz.AccessScope, id string) error
	AdjustStock(ctx context.Context, scope authz.AccessScope, id string, delta int64) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, tenant_id, COALESCE(store_id, ''), sku, name, COALESCE(category, ''), price_cents, stock, active, created_at, updated_at`

func (r *repository) List(ctx context.Context, scope authz.AccessScope, filters ListFilters) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		query += ` WHERE (name ILIKE $1 OR sku ILIKE $1)`
	}

	scoped, err := authz.ScopeQuery(query, args, scope, scopeColumns)
	if err != nil {
		return nil, err
	}

	query = scoped.Query + " ORDER BY name ASC"
	if filters.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(filters.Limit) + " OFFSET " + strconv.Itoa(filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, scoped.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, scope authz.AccessScope, id string) (Product, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+productColumns+` FROM products WHERE id = $1`, []any{id}, scope, scopeColumns)
	if err != nil {
		return Product{}, err
	}
	p, err := scanProduct(r.db.QueryRow(ctx, scoped.Query, scoped.Params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, httpx.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, tenant_id, store_id, sku, name, category, price_cents, stock, active, created_at, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $10)`,
		p.ID, p.TenantID, p.StoreID, p.SKU, p.Name, p.Category, p.PriceCents, p.Stock, p.Active, now)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Product{}, fmt.Errorf("%w: sku already in use", httpx.ErrDuplicate)
		}
		return Product{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) Update(ctx context.Context, scope authz.AccessScope, id string, p Product) error {
	base := `UPDATE products SET sku = $1, name = $2, category = NULLIF($3, ''), price_cents = $4, stock = $5, active = $6, updated_at = $7 WHERE id = $8`
	args := []any{p.SKU, p.Name, p.Category, p.PriceCents, p.Stock, p.Active, time.Now().UTC(), id}
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
	scoped, err := authz.ScopeQuery(`DELETE FROM products WHERE id = $1`, []any{id}, scope, scopeColumns)
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

// AdjustStock applies a relative stock correction and returns the new
// quantity. The RETURNING clause makes read and write one statement, so no
// separate transaction is needed.
func (r *repository) AdjustStock(ctx context.Context, scope authz.AccessScope, id string, delta int64) (int64, error) {
	base := `UPDATE products SET stock = stock + $1, updated_at = $2 WHERE id = $3`
	args := []any{delta, time.Now().UTC(), id}
	scoped, err := authz.ScopeQuery(base, args, scope, scopeColumns)
	if err != nil {
		return 0, err
	}
	var stock int64
	err = r.db.QueryRow(ctx, scoped.Query+" RETURNING stock", scoped.Params...).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, httpx.ErrNotFound
		}
		return 0, err
	}
	return stock, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.TenantID, &p.StoreID, &p.SKU, &p.Name, &p.Category, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

var _ Repository = (*repository)(nil)
