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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pure-bhakti-vault-api/internal/config"
	"github.com/pure-bhakti-vault-api/internal/handlers"
	"github.com/pure-bhakti-vault-api/internal/logger"
	"github.com/pure-bhakti-vault-api/internal/metrics"
	"github.com/pure-bhakti-vault-api/internal/middleware"
	"github.com/pure-bhakti-vault-api/internal/moderation"
	"github.com/pure-bhakti-vault-api/internal/repository"
	"github.com/pure-bhakti-vault-api/internal/repository/postgres"
	"github.com/pure-bhakti-vault-api/internal/repository/vertex"
	"github.com/pure-bhakti-vault-api/internal/services"
	"github.com/pure-bhakti-vault-api/pkg/schema/db"
	pkgservices "github.com/pure-bhakti-vault-api/pkg/schema/services"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Get configuration
	cfg := config.GetConfig()

	zapLogger, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	metrics.RegisterSearchMetrics()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(zapLogger))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	e.Use(metrics.Middleware())

	// Initialize PostgreSQL
	ctx := context.Background()
	if err := db.InitPostgres(ctx); err != nil {
		zapLogger.Fatal("Failed to initialize PostgreSQL", zap.Error(err))
	}
	zapLogger.Info("Database initialization complete")

	// Create repositories
	pgDB := db.GetPostgres()
	bookRepo := postgres.NewBookRepository(pgDB)
	contentRepo := postgres.NewContentRepository(pgDB)
	glossaryRepo := postgres.NewGlossaryRepository(pgDB)
	pageMapRepo := postgres.NewPageMapRepository(pgDB)
	tocRepo := postgres.NewTocRepository(pgDB)

	// Create vector search repository based on configuration
	var vectorRepo repository.VectorSearchRepository
	var vertexRepo *vertex.VectorSearchRepository // For cleanup

	switch cfg.VectorBackend {
	case "vertex":
		zapLogger.Info("Using Vertex AI Vector Search backend")
		vertexCfg := vertex.Config{
			ProjectID:            cfg.VertexProjectID,
			Location:             cfg.VertexLocation,
			IndexEndpointID:      cfg.VertexIndexEndpointID,
			DeployedIndexID:      cfg.VertexDeployedIndexID,
			PublicEndpointDomain: cfg.VertexPublicEndpointDomain,
		}
		vertexRepo, err = vertex.NewVectorSearchRepository(ctx, vertexCfg, pgDB)
		if err != nil {
			zapLogger.Fatal("Failed to create Vertex AI vector repository", zap.Error(err))
		}
		vectorRepo = vertexRepo
	default:
		zapLogger.Info("Using pgvector backend")
		vectorRepo = postgres.NewVectorSearchRepository(pgDB)
	}

	// Create services
	embeddingsSvc := pkgservices.GetEmbeddingsService(zapLogger)
	if err := pkgservices.GetInitError(); err != nil {
		zapLogger.Fatal("Failed to initialize embeddings service", zap.Error(err))
	}

	blocklist := moderation.LoadBlocklist(cfg.BlockedWordsPath, zapLogger)
	filter := moderation.NewFilter(blocklist)

	searchSvc := services.NewGlossarySearchService(filter, embeddingsSvc, vectorRepo, glossaryRepo, bookRepo, zapLogger)
	librarySvc := services.NewLibraryService(bookRepo, contentRepo, glossaryRepo, pageMapRepo, tocRepo)

	// Create API group with prefix
	api := e.Group(cfg.APIPrefix)

	// Register handlers
	healthHandler := handlers.NewHealthHandler(embeddingsSvc)
	healthHandler.RegisterRoutes(api)
	e.GET("/health", healthHandler.Health)

	searchHandler := handlers.NewSearchHandler(searchSvc, zapLogger)
	searchHandler.RegisterRoutes(api)

	libraryHandler := handlers.NewLibraryHandler(librarySvc, zapLogger)
	libraryHandler.RegisterRoutes(api)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Root
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "Welcome to " + cfg.APITitle,
			"version": cfg.APIVersion,
			"status":  "running",
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		zapLogger.Info("Starting server",
			zap.String("name", cfg.APITitle),
			zap.String("version", cfg.APIVersion),
			zap.String("addr", addr),
			zap.String("environment", cfg.Environment),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("Server stopped", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Error shutting down server", zap.Error(err))
	}

	if err := db.ClosePostgres(); err != nil {
		zapLogger.Error("Error closing PostgreSQL", zap.Error(err))
	}

	// Close Vertex AI client if used
	if vertexRepo != nil {
		if err := vertexRepo.Close(); err != nil {
			zapLogger.Error("Error closing Vertex AI client", zap.Error(err))
		}
	}

	zapLogger.Info("Server stopped")
}
