package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wefit-app/wefit-backend/internal/api/auth"
	"github.com/wefit-app/wefit-backend/internal/api/user"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler            auth.Handler
	UserHandler            user.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	// The React front-end runs on a different origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Welcome to WeFit! Your AI-based Fitness App."))
	})

	// Public routes.
	r.Group(func(r chi.Router) {
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/api/signup", cfg.AuthHandler.Signup)
		r.Get("/users", cfg.UserHandler.GetUsers)

		r.Get("/auth/{provider}", cfg.AuthHandler.BeginOAuth)
		r.Get("/auth/{provider}/callback", cfg.AuthHandler.OAuthCallback)
	})

	// Protected routes.
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Get("/api/me", cfg.UserHandler.GetCurrentUser)
	})

	return r
}
