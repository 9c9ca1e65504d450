// Command upsert streams glossary embeddings from PostgreSQL into a Vertex AI
// Vector Search index with UpsertDatapoints.
//
// Environment variables:
//
//	GCP_PROJECT_ID  - GCP project (falls back to VERTEX_PROJECT_ID)
//	VERTEX_LOCATION - Region (default: us-central1)
//	VERTEX_INDEX_ID - The index to update
//
// Usage:
//
//	go run ./scripts/upsert [-book-id 3]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"github.com/joho/godotenv"
	appconfig "github.com/pure-bhakti-vault-api/internal/config"
	"github.com/pure-bhakti-vault-api/internal/ingest"
	"github.com/pure-bhakti-vault-api/internal/logger"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/pkg/schema/db"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	bookID := flag.Int("book-id", 0, "Only upsert terms of this book")
	flag.Parse()

	_ = godotenv.Load()

	zapLogger, err := logger.NewLogger(appconfig.GetConfig().Environment, appconfig.GetConfig().LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	projectID := firstEnv("GCP_PROJECT_ID", "VERTEX_PROJECT_ID")
	if projectID == "" {
		zapLogger.Fatal("GCP_PROJECT_ID or VERTEX_PROJECT_ID environment variable is required")
	}
	location := firstEnv("VERTEX_LOCATION")
	if location == "" {
		location = "us-central1"
	}
	indexID := firstEnv("VERTEX_INDEX_ID")
	if indexID == "" {
		zapLogger.Fatal("VERTEX_INDEX_ID environment variable is required")
	}

	ctx := context.Background()
	if err := db.InitPostgres(ctx); err != nil {
		zapLogger.Fatal("Failed to initialize PostgreSQL", zap.Error(err))
	}
	defer func() { _ = db.ClosePostgres() }()

	endpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)
	client, err := aiplatform.NewIndexClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		zapLogger.Fatal("Failed to create index client", zap.Error(err))
	}
	defer client.Close()

	indexName := fmt.Sprintf("projects/%s/locations/%s/indexes/%s", projectID, location, indexID)
	zapLogger.Info("Upserting glossary embeddings", zap.String("index", indexName))

	var scope *int
	if *bookID > 0 {
		scope = bookID
	}

	upserter := ingest.NewIndexUpserter(client, indexName, ingest.UpsertBatchSize)
	store := ingest.NewStore(db.GetPostgres())
	err = store.EachEmbedding(ctx, scope, func(te models.TermEmbedding) error {
		before := upserter.Sent()
		if err := upserter.Add(ctx, te); err != nil {
			return err
		}
		if upserter.Sent() != before {
			zapLogger.Info("Upserted batch", zap.Int("total", upserter.Sent()))
		}
		return nil
	})
	if err == nil {
		err = upserter.Flush(ctx)
	}
	if err != nil {
		zapLogger.Fatal("Upsert failed", zap.Int("upserted", upserter.Sent()), zap.Error(err))
	}

	zapLogger.Info("Upsert complete", zap.Int("upserted", upserter.Sent()))
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
