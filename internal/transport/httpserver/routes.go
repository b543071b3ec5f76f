package httpserver

import (
	"net/http"
	"time"

	"finance-dashboard-go/internal/config"
	"finance-dashboard-go/internal/transport/httpserver/handler"
	authmw "finance-dashboard-go/internal/transport/httpserver/middleware"
	"finance-dashboard-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenVerifier, users authmw.UserLookup, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Post("/auth/register", handlers.Common.Register)
		r.Post("/auth/login", handlers.Common.Login)

		auth := authmw.NewJWTAuth(cfg.Auth, tokens, users, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/profile", handlers.Common.Profile)
			r.Put("/auth/profile", handlers.Common.UpdateProfile)

			r.Get("/transactions", handlers.Transactions.ListTransactions)
			r.Post("/transactions", handlers.Transactions.CreateTransaction)
			r.Get("/transactions/analytics", handlers.Transactions.GetAnalytics)
			r.Get("/transactions/analytics/export", handlers.Transactions.ExportAnalytics)
			r.Get("/transactions/export", handlers.Transactions.ExportTransactions)
			r.Get("/transactions/{id}", handlers.Transactions.GetTransaction)
			r.Put("/transactions/{id}", handlers.Transactions.UpdateTransaction)
			r.Delete("/transactions/{id}", handlers.Transactions.DeleteTransaction)
		})
	})

	return r
}
