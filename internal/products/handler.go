package products

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/platform/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/stock", h.adjustStock)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	scope, principal, ok := httpx.Identity(r)
	if !ok {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	filters := ListFilters{
		Search: r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	}

	items, err := h.service.List(r.Context(), scope, principal.ID, filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	scope, principal, ok := httpx.Identity(r)
	if !ok {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}

	item, err := h.service.Get(r.Context(), scope, principal.ID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	scope, principal, ok := httpx.Identity(r)
	if !ok {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}

	var p Product
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), scope, principal.ID, p)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	scope, principal, ok := httpx.Identity(r)
	if !ok {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}

	var p Product
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), scope, principal.ID, chi.URLParam(r, "id"), p); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	scope, principal, ok := httpx.Identity(r)
	if !ok {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}

	if err := h.service.Delete(r.Context(), scope, principal.ID, chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	scope, principal, ok := httpx.Identity(r)
	if !ok {
		httpx.RespondError(w, authz.ErrUnauthenticated)
		return
	}

	var body struct {
		Delta int64 `json:"delta"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	stock, err := h.service.AdjustStock(r.Context(), scope, principal.ID, chi.URLParam(r, "id"), body.Delta)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stock": stock})
}
