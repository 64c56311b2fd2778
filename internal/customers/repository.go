package customers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

var scopeColumns = authz.ColumnMap{TenantColumn: "tenant_id"}

type Repository interface {
	List(ctx context.Context, scope authz.AccessScope, search string) ([]Customer, error)
	Get(ctx context.Context, scope authz.AccessScope, id string) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, scope authz.AccessScope, id string, c Customer) error
	Delete(ctx context.Context, scope authz.AccessScope, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const customerColumns = `id, tenant_id, name, COALESCE(phone, ''), COALESCE(email, ''), points, created_at, updated_at`

func (r *repository) List(ctx context.Context, scope authz.AccessScope, search string) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` WHERE (name ILIKE $1 OR phone ILIKE $1)`
	}

	scoped, err := authz.ScopeQuery(query, args, scope, scopeColumns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, scoped.Query+" ORDER BY name ASC", scoped.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, scope authz.AccessScope, id string) (Customer, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+customerColumns+` FROM customers WHERE id = $1`, []any{id}, scope, scopeColumns)
	if err != nil {
		return Customer{}, err
	}
	c, err := scanCustomer(r.db.QueryRow(ctx, scoped.Query, scoped.Params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, httpx.ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, c Customer) (Customer, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO customers (id, tenant_id, name, phone, email, points, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $7)`,
		c.ID, c.TenantID, c.Name, c.Phone, c.Email, c.Points, now)
	if err != nil {
		return Customer{}, err
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repository) Update(ctx context.Context, scope authz.AccessScope, id string, c Customer) error {
	base := `UPDATE customers SET name = $1, phone = NULLIF($2, ''), email = NULLIF($3, ''), points = $4, updated_at = $5 WHERE id = $6`
	scoped, err := authz.ScopeQuery(base, []any{c.Name, c.Phone, c.Email, c.Points, time.Now().UTC(), id}, scope, scopeColumns)
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
	scoped, err := authz.ScopeQuery(`DELETE FROM customers WHERE id = $1`, []any{id}, scope, scopeColumns)
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

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.Email, &c.Points, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

var _ Repository = (*repository)(nil)
