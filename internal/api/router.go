package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"spendtrack/internal/api/handlers"
	"spendtrack/internal/auth"
	"spendtrack/internal/config"
	"spendtrack/internal/services"
)

// NewUserRouter creates and configures the router for the user service.
func NewUserRouter(cfg *config.Config, userService services.UserServiceProvider, issuer *auth.TokenIssuer) *chi.Mux {
	r := newBaseRouter(cfg)

	userHandler := handlers.NewUserHandler(userService, issuer)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
	})

	return r
}

// NewExpenseRouter creates and configures the router for the expense
// service. Every /expenses route passes through the auth gate.
func NewExpenseRouter(cfg *config.Config, expenseService services.ExpenseServiceProvider, issuer *auth.TokenIssuer) *chi.Mux {
	r := newBaseRouter(cfg)

	expenseHandler := handlers.NewExpenseHandler(expenseService)

	r.Route("/expenses", func(r chi.Router) {
		r.Use(auth.RequireAuth(issuer))
		r.Post("/", expenseHandler.Create)
		r.Get("/", expenseHandler.List)
		r.Get("/stats", expenseHandler.Stats)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", expenseHandler.Get)
			r.Put("/", expenseHandler.Update)
			r.Delete("/", expenseHandler.Delete)
		})
	})

	return r
}

func newBaseRouter(cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
