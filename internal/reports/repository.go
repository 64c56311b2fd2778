package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
)

// Transactions carry both isolation columns; customers only the tenant one.
var (
	txColumns       = authz.ColumnMap{TenantColumn: "t.tenant_id", StoreColumn: "t.store_id"}
	customerColumns = authz.ColumnMap{TenantColumn: "tenant_id"}
)

type Repository interface {
	SalesSummary(ctx context.Context, scope authz.AccessScope, from, to time.Time) (SalesSummary, error)
	TopProducts(ctx context.Context, scope authz.AccessScope, from, to time.Time, limit int) ([]ProductSales, error)
	NewCustomers(ctx context.Context, scope authz.AccessScope, from, to time.Time) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) SalesSummary(ctx context.Context, scope authz.AccessScope, from, to time.Time) (SalesSummary, error) {
	base := `SELECT
		COALESCE(SUM(t.total_cents) FILTER (WHERE t.status = 'paid'), 0),
		COUNT(*) FILTER (WHERE t.status = 'paid'),
		COUNT(*) FILTER (WHERE t.status = 'voided')
	FROM transactions t
	WHERE t.created_at >= $1 AND t.created_at < $2`
	scoped, err := authz.ScopeQuery(base, []any{from, to}, scope, txColumns)
	if err != nil {
		return SalesSummary{}, err
	}

	var s SalesSummary
	if err := r.db.QueryRow(ctx, scoped.Query, scoped.Params...).
		Scan(&s.TotalSalesCents, &s.TransactionCount, &s.VoidedCount); err != nil {
		return SalesSummary{}, err
	}
	if s.TransactionCount > 0 {
		s.AverageTicketCents = s.TotalSalesCents / s.TransactionCount
	}
	return s, nil
}

func (r *repository) TopProducts(ctx context.Context, scope authz.AccessScope, from, to time.Time, limit int) ([]ProductSales, error) {
	base := `SELECT
		line->>'product_id',
		MAX(line->>'name'),
		SUM((line->>'qty')::bigint),
		SUM((line->>'qty')::bigint * (line->>'price_cents')::bigint)
	FROM transactions t
	CROSS JOIN LATERAL jsonb_array_elements(t.lines) AS line
	WHERE t.status = 'paid' AND t.created_at >= $1 AND t.created_at < $2`
	scoped, err := authz.ScopeQuery(base, []any{from, to}, scope, txColumns)
	if err != nil {
		return nil, err
	}

	scoped.Params = append(scoped.Params, limit)
	query := scoped.Query + ` GROUP BY line->>'product_id' ORDER BY 4 DESC LIMIT $` +
		strconv.Itoa(len(scoped.Params))

	rows, err := r.db.Query(ctx, query, scoped.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ProductSales
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.Name, &p.QtySold, &p.RevenueCents); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repository) NewCustomers(ctx context.Context, scope authz.AccessScope, from, to time.Time) (int64, error) {
	base := `SELECT COUNT(*) FROM customers WHERE created_at >= $1 AND created_at < $2`
	scoped, err := authz.ScopeQuery(base, []any{from, to}, scope, customerColumns)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, scoped.Query, scoped.Params...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var _ Repository = (*repository)(nil)
