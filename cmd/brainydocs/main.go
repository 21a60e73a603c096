package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/brainydocs/brainydocs/internal/api"
	"github.com/brainydocs/brainydocs/internal/config"
	"github.com/brainydocs/brainydocs/internal/logging"
	"github.com/brainydocs/brainydocs/internal/rag"
	"github.com/brainydocs/brainydocs/internal/repository"
	"github.com/brainydocs/brainydocs/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (users, sessions, messages, references, documents)
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Initialize RAG engine (embeddings, vector store, LLM)
	engine, err := rag.NewEngine(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize RAG engine, running without retrieval", zap.Error(err))
		// Continue without engine - chats will get placeholder responses
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Auth)
	adminService := service.NewAdminService(userRepo, sessionRepo, documentRepo)

	// Avoid handing a typed nil to the interface fields
	var answerEngine service.AnswerEngine
	var ingester service.Ingester
	if engine != nil {
		answerEngine = engine
		ingester = engine
	}
	chatService := service.NewChatService(sessionRepo, referenceRepo, answerEngine, logger)
	ingestService := service.NewIngestService(documentRepo, cfg, ingester, logger)

	// Setup router
	router := api.SetupRouter(authService, chatService, ingestService, adminService, api.RouterConfig{
		AdminAPIKey:  cfg.Admin.APIKey,
		AllowOrigins: []string{"*"},
		RateLimit:    cfg.RateLimit,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting BrainyDocs server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
