package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-ai/internal/ai"
	"portfolio-ai/internal/api"
	"portfolio-ai/internal/config"
	"portfolio-ai/internal/repository"
	"portfolio-ai/internal/services"
	"portfolio-ai/internal/telemetry"
)

func main() {
	log.Println("🚀 Starting portfolio server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Initialize Jaeger tracing first so every operation is traced
	jaegerShutdown, err := telemetry.InitJaeger("portfolio-ai", cfg.JaegerEndpoint)
	if err != nil {
		log.Printf("⚠️  Failed to initialize Jaeger: %v (continuing without tracing)", err)
		jaegerShutdown = func(ctx context.Context) error { return nil }
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := jaegerShutdown(ctx); err != nil {
			log.Printf("⚠️  Failed to shutdown Jaeger: %v", err)
		}
	}()

	// Select the AI provider once, from explicit configuration. An
	// unusable configuration yields the disabled provider; the chat
	// pipeline stays available on its fallback paths.
	provider := ai.NewProvider(cfg)
	log.Printf("✓ AI provider selected: %s (configured=%v)", provider.Name(), provider.IsConfigured())

	// Document store: one JSON file, replaced wholesale with backups.
	store := repository.NewPortfolioStore(cfg.PortfolioFile, cfg.BackupDir)

	// Build the retrieval cache eagerly so the first chat request already
	// has content to answer from.
	embStore := services.NewEmbeddingStore(provider, store, cfg.EmbedWorkers)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := embStore.Rebuild(startupCtx); err != nil {
		if errors.Is(err, services.ErrNoChunks) {
			log.Println("⚠️  Portfolio produced no chunks; chat will answer with the fallback message")
		} else {
			log.Printf("⚠️  Initial cache build failed: %v", err)
		}
	}
	cancelStartup()

	retriever := services.NewRetriever(embStore)
	responder := services.NewResponder(provider, cfg.MaxAnswerTokens)
	chatService := services.NewChatService(retriever, responder)
	analytics := services.NewAnalytics()

	// Watch the portfolio file so out-of-band edits trigger a rebuild too.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	err = repository.WatchFile(watchCtx, store.Path(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := embStore.Rebuild(ctx); err != nil && !errors.Is(err, services.ErrNoChunks) {
			log.Printf("⚠️  Rebuild after file change failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("⚠️  Could not watch portfolio file: %v (uploads still trigger rebuilds)", err)
	}

	// Wire handlers and routes
	handler := api.NewHandler(chatService, store, embStore, provider, analytics)
	router := api.SetupRoutes(handler, cfg.AdminUser, cfg.AdminPassword)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://%s", addr)
		log.Printf("📚 API Endpoints:")
		log.Printf("   POST   /api/chat                 - Ask about the portfolio")
		log.Printf("   GET    /api/portfolio            - Current portfolio document")
		log.Printf("   GET    /api/themes               - Available themes")
		log.Printf("   PUT    /api/admin/portfolio      - Replace portfolio (basic auth)")
		log.Printf("   GET    /api/admin/ai-status      - Provider diagnostics (basic auth)")
		log.Printf("   GET    /ws/chat                  - WebSocket chat")
		log.Println()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	cancelWatch()

	log.Println("✓ Server shutdown complete")
}
