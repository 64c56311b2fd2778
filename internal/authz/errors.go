package authz

import "errors"

var (
	// ErrUnauthenticated indicates a missing, malformed, expired or revoked credential.
	ErrUnauthenticated = errors.New("authz: unauthenticated")
	// ErrInsufficientLevel indicates the capability matrix denied the operation.
	ErrInsufficientLevel = errors.New("authz: insufficient level")
	// ErrTenantMismatch indicates an attempt to act on another tenant's data.
	ErrTenantMismatch = errors.New("authz: tenant mismatch")
	// ErrStoreMismatch indicates an attempt to act on another store's data.
	ErrStoreMismatch = errors.New("authz: store mismatch")
	// ErrInvariantViolation indicates a scope that should be structurally
	// unreachable, such as a restricted scope without a tenant id. Callers
	// must treat this as a programming error and abort the request.
	ErrInvariantViolation = errors.New("authz: scope invariant violation")
)
