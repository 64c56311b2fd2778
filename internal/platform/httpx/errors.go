// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/vendapos/venda/internal/authz"
)

// Sentinel errors for the feature modules' domain layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")
)

// RespondError maps domain and authorization errors to HTTP responses using
// RFC7807. The three denial reasons deliberately collapse into a generic
// Forbidden: responses never reveal which tenants or stores exist; the
// detail lives only in the audit log.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	case errors.Is(err, authz.ErrInsufficientLevel),
		errors.Is(err, authz.ErrTenantMismatch),
		errors.Is(err, authz.ErrStoreMismatch):
		Problem(w, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, authz.ErrInvariantViolation):
		// Never downgrade: continuing could mean an unscoped query ran.
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
