package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
)

// Entry is one persisted audit record.
type Entry struct {
	ID              int64       `json:"id"`
	ActorID         string      `json:"actor_id"`
	Level           authz.Level `json:"level"`
	Module          string      `json:"module"`
	Operation       string      `json:"operation"`
	Outcome         string      `json:"outcome"`
	Reason          string      `json:"reason,omitempty"`
	ScopeTenantID   string      `json:"scope_tenant_id"`
	ScopeStoreID    string      `json:"scope_store_id,omitempty"`
	RequestTenantID string      `json:"request_tenant_id,omitempty"`
	RequestStoreID  string      `json:"request_store_id,omitempty"`
	OccurredAt      time.Time   `json:"occurred_at"`
}

// Service reads the audit trail. Reads go through the query rewriter like
// any other module: a tenant admin only ever sees entries recorded against
// its own tenant, root sees all of them.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// List returns the most recent entries visible to the scope, newest first.
func (s *Service) List(ctx context.Context, scope authz.AccessScope, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	base := `SELECT id, actor_id, level, module, operation, outcome, reason,
	       scope_tenant_id, COALESCE(scope_store_id, ''), request_tenant_id, request_store_id, occurred_at
	  FROM authz_audit_log`
	scoped, err := authz.ScopeQuery(base, nil, scope, authz.ColumnMap{TenantColumn: "scope_tenant_id"})
	if err != nil {
		return nil, err
	}

	query := scoped.Query + " ORDER BY occurred_at DESC LIMIT " + strconv.Itoa(limit)
	rows, err := s.pool.Query(ctx, query, scoped.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var level int
		if err := rows.Scan(&e.ID, &e.ActorID, &level, &e.Module, &e.Operation, &e.Outcome, &e.Reason,
			&e.ScopeTenantID, &e.ScopeStoreID, &e.RequestTenantID, &e.RequestStoreID, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Level = authz.Level(level)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteOlderThan removes entries past the retention horizon. Called from
// the retention job, never from the request path.
func (s *Service) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM authz_audit_log WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
