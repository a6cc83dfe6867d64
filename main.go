package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/subgen/backend/internal/api"
	"github.com/subgen/backend/internal/auth"
	"github.com/subgen/backend/internal/config"
	"github.com/subgen/backend/internal/db"
	"github.com/subgen/backend/internal/job"
	"github.com/subgen/backend/internal/storage"
	"github.com/subgen/backend/internal/subtitle/generate"
)

func main() {
	// Optional .env for local development
	godotenv.Load()

	cfg := config.Load()

	// Ensure data directories exist
	os.MkdirAll(cfg.DataPath, 0755)
	os.MkdirAll(cfg.SubtitlePath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Job queue
	jobQueue := job.NewJobQueue(database.DB())
	defer jobQueue.Stop()

	// Generation service: DB settings override env for key and model
	exporter := storage.NewExporter(cfg.SubtitlePath)
	genService := generate.NewService(cfg.MediaPath, exporter)
	genService.Register(generate.NewGeminiGenerator(
		func() string { return database.GetSetting("gemini_api_key", cfg.GeminiAPIKey) },
		func() string { return database.GetSetting("gemini_model", cfg.GeminiModel) },
	))
	jobQueue.RegisterHandler(job.JobGenerate, genService.HandleJob)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Create router
	router := api.NewRouter(database, jwtService, cfg, jobQueue, exporter)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Media path: %s", cfg.MediaPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		jobQueue.Stop()
		database.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
