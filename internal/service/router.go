package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gastosfacil/backend/internal/middleware"
)

// RouterConfig holds everything NewRouter mounts.
type RouterConfig struct {
	Auth     *AuthService
	Groups   *GroupService
	Expenses *ExpenseService
	Tokens   middleware.TokenValidator
	Store    Pinger

	// Optional.
	Metrics        *middleware.HTTPMetrics
	MetricsHandler http.Handler
	CORSOrigin     string
}

// NewRouter builds the HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Handler)
	}
	if cfg.CORSOrigin != "" {
		r.Use(middleware.CORS(cfg.CORSOrigin))
	}

	r.Get("/healthz", Health(cfg.Store))
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Post("/register", cfg.Auth.Register)
	r.Post("/login", cfg.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Tokens))

		r.Get("/verify", cfg.Auth.Verify)

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", cfg.Groups.ListGroups)
			r.Post("/", cfg.Groups.CreateGroup)
			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/members", cfg.Groups.ListMembers)
				r.Post("/members", cfg.Groups.AddMember)
				r.Get("/expenses", cfg.Groups.ListGroupExpenses)
				r.Get("/balances", cfg.Groups.GroupBalances)
			})
		})

		r.Get("/expenses", cfg.Expenses.ListExpenses)
		r.Post("/expenses", cfg.Expenses.CreateExpense)
		r.Get("/balance", cfg.Expenses.Balance)
	})

	return r
}
