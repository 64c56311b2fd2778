package authz

import (
	"context"
	"log/slog"
)

// Reason explains why an operation was denied. Callers map every reason to a
// generic forbidden response; the distinction exists for the audit trail.
type Reason string

const (
	ReasonInsufficientLevel Reason = "insufficient-level"
	ReasonTenantMismatch    Reason = "tenant-mismatch"
	ReasonStoreMismatch     Reason = "store-mismatch"
)

// Decision is the outcome of one authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err maps a deny decision onto its sentinel error. Allowed decisions
// return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonTenantMismatch:
		return ErrTenantMismatch
	case ReasonStoreMismatch:
		return ErrStoreMismatch
	default:
		return ErrInsufficientLevel
	}
}

// Options declares the scope requirements of one operation beyond the
// capability matrix.
type Options struct {
	// RequireSameTenant rejects requests whose target tenant differs from
	// the scope's tenant.
	RequireSameTenant bool
	// RequireSameStore rejects requests whose target store differs from the
	// scope's store. Only store-scoped levels are affected.
	RequireSameStore bool
}

// AuditEntry records a denial or a root bypass for the audit trail.
type AuditEntry struct {
	ActorID         string
	Level           Level
	Module          Module
	Operation       Operation
	Outcome         string // "deny" or "bypass"
	Reason          Reason // empty for bypasses
	ScopeTenantID   string
	ScopeStoreID    string
	RequestTenantID string
	RequestStoreID  string
}

// AuditSink receives authorization audit entries. Implementations must be
// safe for concurrent use; entries may be emitted from many requests at
// once.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}

// Authorizer decides whether a scoped actor may perform an operation on a
// module. It is stateless apart from its logger and audit sink and safe for
// concurrent use.
type Authorizer struct {
	logger *slog.Logger
	audit  AuditSink
}

// NewAuthorizer constructs an Authorizer. The audit sink may be nil in
// tests; denials are then only logged.
func NewAuthorizer(logger *slog.Logger, audit AuditSink) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{logger: logger, audit: audit}
}

// Authorize runs the four-step decision: root bypass, capability matrix,
// tenant boundary, store boundary. The ordering is load-bearing: the matrix
// is consulted before the tenant and store checks so that an actor lacking
// the capability is denied for that reason even when it also supplies a
// mismatched tenant or store id.
//
// actorID identifies the principal for the audit trail; requestTenantID and
// requestStoreID are the target ids claimed by the request, empty when the
// request names none.
func (a *Authorizer) Authorize(ctx context.Context, scope AccessScope, actorID string, module Module, op Operation, opts Options, requestTenantID, requestStoreID string) Decision {
	if scope.Unrestricted {
		// Bypassing every check must always be observable.
		entry := AuditEntry{
			ActorID:         actorID,
			Level:           scope.Level,
			Module:          module,
			Operation:       op,
			Outcome:         "bypass",
			ScopeTenantID:   scope.TenantID,
			ScopeStoreID:    scope.StoreID,
			RequestTenantID: requestTenantID,
			RequestStoreID:  requestStoreID,
		}
		a.record(ctx, entry)
		a.logger.Info("root bypassing authorization",
			slog.String("actor_id", actorID),
			slog.String("module", string(module)),
			slog.String("operation", string(op)))
		return Decision{Allowed: true}
	}

	if !IsAllowed(scope.Level, module, op) {
		return a.deny(ctx, scope, actorID, module, op, ReasonInsufficientLevel, requestTenantID, requestStoreID)
	}

	if opts.RequireSameTenant && scope.EnforceTenant {
		if requestTenantID != "" && requestTenantID != scope.TenantID {
			return a.deny(ctx, scope, actorID, module, op, ReasonTenantMismatch, requestTenantID, requestStoreID)
		}
	}

	if opts.RequireSameStore && scope.Level.StoreScoped() {
		if requestStoreID != "" && requestStoreID != scope.StoreID {
			return a.deny(ctx, scope, actorID, module, op, ReasonStoreMismatch, requestTenantID, requestStoreID)
		}
	}

	a.logger.Debug("authorization granted",
		slog.String("actor_id", actorID),
		slog.Int("level", int(scope.Level)),
		slog.String("module", string(module)),
		slog.String("operation", string(op)))
	return Decision{Allowed: true}
}

func (a *Authorizer) deny(ctx context.Context, scope AccessScope, actorID string, module Module, op Operation, reason Reason, requestTenantID, requestStoreID string) Decision {
	entry := AuditEntry{
		ActorID:         actorID,
		Level:           scope.Level,
		Module:          module,
		Operation:       op,
		Outcome:         "deny",
		Reason:          reason,
		ScopeTenantID:   scope.TenantID,
		ScopeStoreID:    scope.StoreID,
		RequestTenantID: requestTenantID,
		RequestStoreID:  requestStoreID,
	}
	a.record(ctx, entry)
	a.logger.Warn("authorization denied",
		slog.String("actor_id", actorID),
		slog.Int("level", int(scope.Level)),
		slog.String("module", string(module)),
		slog.String("operation", string(op)),
		slog.String("reason", string(reason)),
		slog.String("scope_tenant", scope.TenantID),
		slog.String("request_tenant", requestTenantID),
		slog.String("scope_store", scope.StoreID),
		slog.String("request_store", requestStoreID))
	return Decision{Allowed: false, Reason: reason}
}

func (a *Authorizer) record(ctx context.Context, entry AuditEntry) {
	if a.audit == nil {
		return
	}
	a.audit.Record(ctx, entry)
}
