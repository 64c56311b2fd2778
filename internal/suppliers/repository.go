package suppliers

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
	List(ctx context.Context, scope authz.AccessScope, search string) ([]Supplier, error)
	Get(ctx context.Context, scope authz.AccessScope, id string) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, scope authz.AccessScope, id string, s Supplier) error
	Delete(ctx context.Context, scope authz.AccessScope, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const supplierColumns = `id, tenant_id, code, name, COALESCE(address, ''), COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at`

func (r *repository) List(ctx context.Context, scope authz.AccessScope, search string) ([]Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` WHERE (name ILIKE $1 OR code ILIKE $1)`
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

	var items []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, scope authz.AccessScope, id string) (Supplier, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, []any{id}, scope, scopeColumns)
	if err != nil {
		return Supplier{}, err
	}
	s, err := scanSupplier(r.db.QueryRow(ctx, scoped.Query, scoped.Params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, httpx.ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO suppliers (id, tenant_id, code, name, address, email, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $8)`,
		s.ID, s.TenantID, s.Code, s.Name, s.Address, s.Email, s.Phone, now)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Supplier{}, fmt.Errorf("%w: supplier code already in use", httpx.ErrDuplicate)
		}
		return Supplier{}, err
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repository) Update(ctx context.Context, scope authz.AccessScope, id string, s Supplier) error {
	base := `UPDATE suppliers SET code = $1, name = $2, address = NULLIF($3, ''), email = NULLIF($4, ''), phone = NULLIF($5, ''), updated_at = $6 WHERE id = $7`
	scoped, err := authz.ScopeQuery(base, []any{s.Code, s.Name, s.Address, s.Email, s.Phone, time.Now().UTC(), id}, scope, scopeColumns)
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
	scoped, err := authz.ScopeQuery(`DELETE FROM suppliers WHERE id = $1`, []any{id}, scope, scopeColumns)
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

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.TenantID, &s.Code, &s.Name, &s.Address, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

var _ Repository = (*repository)(nil)
