package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/db"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// Sales are isolated per tenant and per store; both columns are scoped.
var scopeColumns = authz.ColumnMap{TenantColumn: "tenant_id", StoreColumn: "store_id"}

type Repository interface {
	List(ctx context.Context, scope authz.AccessScope, filters ListFilters) ([]Transaction, error)
	Get(ctx context.Context, scope authz.AccessScope, id string) (Transaction, error)
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	SetStatus(ctx context.Context, scope authz.AccessScope, id, status string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const txColumns = `id, tenant_id, store_id, cashier_id, COALESCE(customer_id, ''), status, currency, total_cents, lines, created_at, updated_at`

func (r *repository) List(ctx context.Context, scope authz.AccessScope, filters ListFilters) ([]Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions`
	args := []any{}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += ` WHERE status = $1`
	}

	scoped, err := authz.ScopeQuery(query, args, scope, scopeColumns)
	if err != nil {
		return nil, err
	}

	query = scoped.Query + " ORDER BY created_at DESC"
	if filters.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(filters.Limit) + " OFFSET " + strconv.Itoa(filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, scoped.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, tx)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, scope authz.AccessScope, id string) (Transaction, error) {
	scoped, err := authz.ScopeQuery(`SELECT `+txColumns+` FROM transactions WHERE id = $1`, []any{id}, scope, scopeColumns)
	if err != nil {
		return Transaction{}, err
	}
	tx, err := scanTransaction(r.db.QueryRow(ctx, scoped.Query, scoped.Params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, httpx.ErrNotFound
		}
		return Transaction{}, err
	}
	return tx, nil
}

// Create inserts the sale and decrements catalog stock in one transaction,
// so a failed stock update rolls the sale back with it.
func (r *repository) Create(ctx context.Context, tx Transaction) (Transaction, error) {
	lines, err := json.Marshal(tx.Lines)
	if err != nil {
		return Transaction{}, err
	}
	now := time.Now().UTC()
	err = db.WithTx(ctx, r.db, func(dbtx pgx.Tx) error {
		_, err := dbtx.Exec(ctx,
			`INSERT INTO transactions (id, tenant_id, store_id, cashier_id, customer_id, status, currency, total_cents, lines, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $10)`,
			tx.ID, tx.TenantID, tx.StoreID, tx.CashierID, tx.CustomerID, tx.Status, tx.Currency, tx.TotalCents, lines, now)
		if err != nil {
			return err
		}
		for _, line := range tx.Lines {
			_, err := dbtx.Exec(ctx,
				`UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3 AND tenant_id = $4`,
				line.Qty, now, line.ProductID, tx.TenantID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Transaction{}, err
	}
	tx.CreatedAt = now
	tx.UpdatedAt = now
	return tx, nil
}

func (r *repository) SetStatus(ctx context.Context, scope authz.AccessScope, id, status string) error {
	base := `UPDATE transactions SET status = $1, updated_at = $2 WHERE id = $3`
	scoped, err := authz.ScopeQuery(base, []any{status, time.Now().UTC(), id}, scope, scopeColumns)
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

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	var lines []byte
	err := row.Scan(&tx.ID, &tx.TenantID, &tx.StoreID, &tx.CashierID, &tx.CustomerID, &tx.Status, &tx.Currency, &tx.TotalCents, &lines, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return Transaction{}, err
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &tx.Lines); err != nil {
			return Transaction{}, err
		}
	}
	return tx, nil
}

var _ Repository = (*repository)(nil)
