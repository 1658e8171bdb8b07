package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/telbook/telbook/internal/auth"
	"github.com/telbook/telbook/internal/middleware"
	"github.com/telbook/telbook/internal/repository"
)

// RouterOptions controls the construction of the HTTP router. Contacts,
// Users and Tokens are required; the rest have defaults.
type RouterOptions struct {
	Contacts ContactService
	Users    repository.UserRepository
	Tokens   *auth.Tokens

	CORSOptions *cors.Options
	Middleware  []func(http.Handler) http.Handler
	ExtraRoutes func(chi.Router)
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter assembles a chi.Router with shared middleware, the public auth
// endpoints and the token-protected contact API. The router can be tailored
// via RouterOptions for CLI usage, tests, or other entrypoints.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/health", healthHandler)

	authHandlers := NewAuthHandlers(opts.Users, opts.Tokens)
	r.Post("/auth/login", authHandlers.HandleLogin)

	contactHandlers := NewContactHandlers(opts.Contacts)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(opts.Tokens, opts.Users))
		protected.Get("/auth/whoami", authHandlers.HandleWhoAmI)
		contactHandlers.Mount(protected)
	})

	if opts.ExtraRoutes != nil {
		opts.ExtraRoutes(r)
	}

	return r
}
