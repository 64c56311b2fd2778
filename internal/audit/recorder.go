// Package audit persists authorization audit entries: every denial and
// every root bypass, appended from concurrent requests.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendapos/venda/internal/authz"
)

// Recorder writes authorization audit entries into authz_audit_log. It
// implements authz.AuditSink. Writes are append-only and safe to call from
// many requests at once; a failed write is logged, never surfaced to the
// request that triggered it.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{pool: pool, logger: logger}
}

// Record persists the audit entry.
func (r *Recorder) Record(ctx context.Context, entry authz.AuditEntry) {
	if r == nil || r.pool == nil {
		return
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO authz_audit_log
		 (actor_id, level, module, operation, outcome, reason, scope_tenant_id, scope_store_id, request_tenant_id, request_store_id, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ActorID, int(entry.Level), string(entry.Module), string(entry.Operation),
		entry.Outcome, string(entry.Reason),
		entry.ScopeTenantID, entry.ScopeStoreID,
		entry.RequestTenantID, entry.RequestStoreID,
		time.Now().UTC())
	if err != nil {
		r.logger.Error("audit write failed",
			slog.Any("error", err),
			slog.String("actor_id", entry.ActorID),
			slog.String("outcome", entry.Outcome))
	}
}

var _ authz.AuditSink = (*Recorder)(nil)
