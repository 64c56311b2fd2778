package webhooks

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
	List(ctx context.Context, scope authz.AccessScope) ([]Endpoint, error)
	Get(ctx context.Context, scope authz.AccessScope, id string) (Endpoint, error)
	Create(ctx context.Context, e Endpoint) (Endpoint, error)
	Update(ctx context.Context, scope authz.AccessScope, id string, e Endpoint) error
	Delete(ctx context.Context, scope authz.AccessScope, id string) error

	// ListActive is the worker-side lookup used during delivery. It runs
	// outside a request scope: the tenant id comes from the queued task
	// payload, not from a principal.
	ListActive(ctx context.Context, tenantID string) ([]Endpoint, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const endpointColumns = `id, tenant_id, url, secret, events, active, created_at, updated_at`

func (r *repository) List(ctx context.Context, scope authz.AccessScope) ([]Endpoint, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+endpointColumns+` FROM webhook_endpoints`, nil, scope, scopeColumns)
	if err != nil {
		return nil, err
	}
	return r.queryEndpoints(ctx, scoped.Query+" ORDER BY created_at DESC", scoped.Params...)
}

func (r *repository) Get(ctx context.Context, scope authz.AccessScope, id string) (Endpoint, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+endpointColumns+` FROM webhook_endpoints WHERE id = $1`, []any{id}, scope, scopeColumns)
	if err != nil {
		return Endpoint{}, err
	}
	e, err := scanEndpoint(r.db.QueryRow(ctx, scoped.Query, scoped.Params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Endpoint{}, httpx.ErrNotFound
		}
		return Endpoint{}, err
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, e Endpoint) (Endpoint, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO webhook_endpoints (id, tenant_id, url, secret, events, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		e.ID, e.TenantID, e.URL, e.Secret, e.Events, e.Active, now)
	if err != nil {
		return Endpoint{}, err
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	return e, nil
}

func (r *repository) Update(ctx context.Context, scope authz.AccessScope, id string, e Endpoint) error {
	base := `UPDATE webhook_endpoints SET url = $1, events = $2, active = $3, updated_at = $4 WHERE id = $5`
	args := []any{e.URL, e.Events, e.Active, time.Now().UTC(), id}
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
	scoped, err := authz.ScopeQuery(`DELETE FROM webhook_endpoints WHERE id = $1`, []any{id}, scope, scopeColumns)
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

func (r *repository) ListActive(ctx context.Context, tenantID string) ([]Endpoint, error) {
	return r.queryEndpoints(ctx,
		`SELECT `+endpointColumns+` FROM webhook_endpoints WHERE tenant_id = $1 AND active = TRUE`, tenantID)
}

func (r *repository) queryEndpoints(ctx context.Context, query string, args ...any) ([]Endpoint, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Endpoint
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func scanEndpoint(row pgx.Row) (Endpoint, error) {
	var e Endpoint
	err := row.Scan(&e.ID, &e.TenantID, &e.URL, &e.Secret, &e.Events, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

var _ Repository = (*repository)(nil)
