package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/recipeshare/internal/config"
	"github.com/crucial707/recipeshare/internal/handlers"
	"github.com/crucial707/recipeshare/internal/media"
	"github.com/crucial707/recipeshare/internal/middleware"
	"github.com/crucial707/recipeshare/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full API handler chain. Kept separate from main so
// integration tests can run the real router against a mocked database.
func newRouter(database *sql.DB, cfg config.Config, store media.Store) http.Handler {
	userRepo := repo.NewUserRepo(database)
	recipeRepo := repo.NewRecipeRepo(database)

	authHandler := &handlers.AuthHandler{
		Users:    userRepo,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: time.Duration(cfg.JWTExpireHours) * time.Hour,
	}
	recipeHandler := &handlers.RecipeHandler{
		Recipes:        recipeRepo,
		Media:          store,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	hsts := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(hsts))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Prometheus)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	// Uploaded images, only meaningful for the disk backend
	if cfg.MediaBackend != "s3" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	authLimiter := middleware.AuthRateLimiter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/recipes", func(r chi.Router) {
			// Reads are public
			r.Get("/", recipeHandler.ListRecipes)
			r.Get("/{id}", recipeHandler.GetRecipe)

			// Mutations require a verified token
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTMiddleware([]byte(cfg.JWTSecret)))
				r.Use(middleware.MaxBytes(cfg.MaxUploadBytes + middleware.DefaultMaxBodyBytes))
				r.Post("/", recipeHandler.CreateRecipe)
				r.Put("/{id}", recipeHandler.UpdateRecipe)
				r.Delete("/{id}", recipeHandler.DeleteRecipe)
			})
		})
	})

	return r
}
