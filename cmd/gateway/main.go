package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pageforge/gateway/internal/gateway/backends"
	"github.com/pageforge/gateway/internal/gateway/deployments"
	"github.com/pageforge/gateway/internal/gateway/generation"
	"github.com/pageforge/gateway/internal/gateway/handlers"
	"github.com/pageforge/gateway/internal/shared/config"
	"github.com/pageforge/gateway/internal/shared/kv"
	"github.com/pageforge/gateway/internal/shared/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting PageForge Gateway on port %s (env: %s)", cfg.Port, cfg.Env)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Durable store for deployment records
	pg, err := kv.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()
	log.Println("✓ Connected to PostgreSQL")

	// Counter store for rate limiting
	rds, err := kv.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rds.Close()
	log.Println("✓ Connected to Redis")

	// Backend catalog and generation pipeline
	registry := backends.NewRegistry(cfg)
	orchestrator := generation.NewOrchestrator(registry, cfg.AttemptTimeout)
	log.Printf("✓ Initialized %d generation backends", len(registry.List()))

	// Deployment store
	store := deployments.NewStore(pg)
	log.Println("✓ Initialized deployment store")

	// Rate limiter: counters in Redis, consistent path through the same
	// client's atomic increment
	limiter := ratelimit.New(rds, rds)
	generatePolicy := ratelimit.PolicyGenerate
	if cfg.GenerateRateLimit > 0 {
		generatePolicy.Limit = cfg.GenerateRateLimit
	}

	// Initialize handlers
	generateHandler := handlers.NewGenerateHandler(orchestrator, store)
	deploymentHandler := handlers.NewDeploymentHandler(store, registry)
	middleware := handlers.NewMiddleware(limiter)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.CORSMiddleware)

	// Health check (no rate limiting)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(generatePolicy)).Post("/generate", generateHandler.HandleGenerate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ratelimit.PolicyAPI))
			r.Get("/backends", deploymentHandler.HandleBackends)
			r.Get("/deployments", deploymentHandler.HandleList)
			r.Get("/deployments/{id}", deploymentHandler.HandleGet)
			r.Get("/deployments/{id}/preview", deploymentHandler.HandlePreview)
		})
	})

	// HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("🚀 Server listening on http://localhost:%s", cfg.Port)
		log.Println("   POST /v1/generate                    - Generate a page from a prompt")
		log.Println("   GET  /v1/deployments                 - List recent deployments")
		log.Println("   GET  /v1/deployments/{id}            - Deployment metadata")
		log.Println("   GET  /v1/deployments/{id}/preview    - Rendered page")
		log.Println("   GET  /v1/backends                    - Backend catalog")
		log.Println("   GET  /health                         - Health check")
		log.Println("")
		log.Println("Ready to accept requests!")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
