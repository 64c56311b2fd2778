package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

// Handler exposes the audit trail read endpoint.
type Handler struct {
	service    *Service
	authorizer *authz.Authorizer
}

func NewHandler(service *Service, authorizer *authz.Authorizer) *Handler {
	return &Handler{service: service, authorizer: authorizer}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	scope, principal, ok := httpx.Identity(r)
	if !ok {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}

	decision := h.authorizer.Authorize(r.Context(), scope, principal.ID,
		authz.ModuleSettings, authz.OpRead, authz.Options{RequireSameTenant: true}, "", "")
	if err := decision.Err(); err != nil {
		httpx.RespondError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.service.List(r.Context(), scope, limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": entries})
}
