package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vendapos/venda/internal/audit"
	"github.com/vendapos/venda/internal/auth"
	"github.com/vendapos/venda/internal/customers"
	"github.com/vendapos/venda/internal/observability"
	"github.com/vendapos/venda/internal/products"
	"github.com/vendapos/venda/internal/reports"
	"github.com/vendapos/venda/internal/stores"
	"github.com/vendapos/venda/internal/suppliers"
	"github.com/vendapos/venda/internal/tenants"
	"github.com/vendapos/venda/internal/transactions"
	"github.com/vendapos/venda/internal/users"
	"github.com/vendapos/venda/internal/webhooks"
	"github.com/vendapos/venda/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthService *auth.Service

	AuthHandler         *auth.Handler
	UsersHandler        *users.Handler
	ProductsHandler     *products.Handler
	CustomersHandler    *customers.Handler
	SuppliersHandler    *suppliers.Handler
	TransactionsHandler *transactions.Handler
	StoresHandler       *stores.Handler
	TenantsHandler      *tenants.Handler
	WebhooksHandler     *webhooks.Handler
	ReportsHandler      *reports.Handler
	AuditHandler        *audit.Handler
	JobHandler          *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Venda defaults. Everything under
// /api/v1 except the auth routes sits behind the bearer-token middleware,
// which attaches the principal and its resolved access scope to the request
// context exactly once.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			params.AuthHandler.MountRoutes(ar)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(auth.Middleware(params.AuthService))

			protected.Route("/users", params.UsersHandler.MountRoutes)
			protected.Route("/products", params.ProductsHandler.MountRoutes)
			protected.Route("/customers", params.CustomersHandler.MountRoutes)
			protected.Route("/suppliers", params.SuppliersHandler.MountRoutes)
			protected.Route("/transactions", params.TransactionsHandler.MountRoutes)
			protected.Route("/stores", params.StoresHandler.MountRoutes)
			protected.Route("/tenants", params.TenantsHandler.MountRoutes)
			protected.Route("/webhooks", params.WebhooksHandler.MountRoutes)
			protected.Route("/reports", params.ReportsHandler.MountRoutes)
			protected.Route("/audit", params.AuditHandler.MountRoutes)

			if params.JobHandler != nil {
				protected.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}
