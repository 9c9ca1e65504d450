// Command embed computes embeddings for glossary terms and stores them in
// glossary_embeddings. By default only terms without an embedding, or edited since
// their embedding was written, are processed.
//
// Usage:
//
//	go run ./scripts/embed [-book-id 3] [-force] [-dry-run] [-batch-size 32]
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	appconfig "github.com/pure-bhakti-vault-api/internal/config"
	"github.com/pure-bhakti-vault-api/internal/ingest"
	"github.com/pure-bhakti-vault-api/internal/logger"
	"github.com/pure-bhakti-vault-api/pkg/schema/config"
	"github.com/pure-bhakti-vault-api/pkg/schema/db"
	pkgservices "github.com/pure-bhakti-vault-api/pkg/schema/services"
	"go.uber.org/zap"
)

func main() {
	bookID := flag.Int("book-id", 0, "Only embed terms of this book")
	force := flag.Bool("force", false, "Re-embed every term")
	dryRun := flag.Bool("dry-run", false, "Count pending terms without embedding")
	batchSize := flag.Int("batch-size", ingest.DefaultBatchSize, "Terms per embedding request")
	flag.Parse()

	_ = godotenv.Load()

	zapLogger, err := logger.NewLogger(appconfig.GetConfig().Environment, appconfig.GetConfig().LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.GetConfig()

	if err := db.InitPostgres(ctx); err != nil {
		zapLogger.Fatal("Failed to initialize PostgreSQL", zap.Error(err))
	}
	defer func() { _ = db.ClosePostgres() }()

	embedder, err := pkgservices.NewEmbedder(ctx, cfg)
	if err != nil {
		zapLogger.Fatal("Failed to create embedder", zap.Error(err))
	}

	opts := ingest.Options{Force: *force, DryRun: *dryRun}
	if *bookID > 0 {
		opts.BookID = bookID
	}

	job := ingest.NewEmbedJob(ingest.NewStore(db.GetPostgres()), embedder, cfg.EmbeddingDimensions, *batchSize, zapLogger)
	stats, err := job.Run(ctx, opts)
	if err != nil {
		zapLogger.Fatal("Embedding run failed", zap.Error(err))
	}

	zapLogger.Info("Embedding run complete",
		zap.String("provider", cfg.EmbeddingProvider),
		zap.String("model", cfg.EmbeddingModel),
		zap.Int("candidates", stats.Candidates),
		zap.Int("embedded", stats.Embedded),
		zap.Int("failed", stats.Failed),
	)
}
