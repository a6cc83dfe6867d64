package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/subgen/backend/internal/api/handlers"
	"github.com/subgen/backend/internal/api/middleware"
	"github.com/subgen/backend/internal/auth"
	"github.com/subgen/backend/internal/config"
	"github.com/subgen/backend/internal/db"
	"github.com/subgen/backend/internal/job"
	"github.com/subgen/backend/internal/storage"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, jobQueue *job.JobQueue, exporter *storage.Exporter) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Generation calls an external paid API; keep the rate modest.
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	filesHandler := handlers.NewFilesHandler(cfg.MediaPath)
	generateHandler := handlers.NewGenerateHandler(cfg.MediaPath, exporter, jobQueue)
	jobHandler := handlers.NewJobHandler(jobQueue)
	settingsHandler := handlers.NewSettingsHandler(database)
	geminiModelsHandler := handlers.NewGeminiModelsHandler(database, cfg.GeminiAPIKey)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Auth (public)
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(1 << 20))
			r.Post("/auth/login", authHandler.Login)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			// Auth
			r.Get("/auth/me", authHandler.Me)

			// Media library
			r.Get("/files/tree", filesHandler.GetTree)
			r.Get("/files/tree/*", filesHandler.GetTree)
			r.Get("/files/search", filesHandler.Search)
			r.Post("/files/upload/*", filesHandler.Upload)
			r.Delete("/files/*", filesHandler.Delete)

			// Subtitle generation
			r.Group(func(r chi.Router) {
				r.Use(middleware.MaxBodySize(1 << 20))
				r.Use(generateLimiter.Handler)
				r.Post("/subtitle/generate-url", generateHandler.GenerateFromURL)
				r.Post("/subtitle/generate/*", generateHandler.Generate)
			})
			r.Get("/subtitle/languages", generateHandler.Languages)
			r.Get("/subtitle/list", generateHandler.List)
			r.Get("/subtitle/list/*", generateHandler.List)
			r.Get("/subtitle/content", generateHandler.Content)
			r.Get("/subtitle/content/*", generateHandler.Content)
			r.Get("/subtitle/download", generateHandler.Download)
			r.Get("/subtitle/download/*", generateHandler.Download)

			// Jobs
			r.Get("/jobs", jobHandler.ListJobs)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Post("/jobs/{id}/retry", jobHandler.RetryJob)
			r.Delete("/jobs/{id}", jobHandler.CancelJob)

			// Settings (admin only)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))
				r.Get("/settings", settingsHandler.GetSettings)
				r.Put("/settings", settingsHandler.UpdateSettings)
			})

			// Gemini models
			r.Get("/gemini/models", geminiModelsHandler.ListModels)
		})
	})

	return r
}
