// Command export writes glossary embeddings from PostgreSQL to a JSONL file in the
// Vertex AI Vector Search import format:
//
//	{"id": "1234", "embedding": [0.1, ...], "restricts": [{"namespace": "book", "allow": ["3"]}]}
//
// Upload the file to Cloud Storage and point GCS_BUCKET_URI at its folder before
// running the setup command.
//
// Usage:
//
//	go run ./scripts/export -output glossary.jsonl [-book-id 3]
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	appconfig "github.com/pure-bhakti-vault-api/internal/config"
	"github.com/pure-bhakti-vault-api/internal/ingest"
	"github.com/pure-bhakti-vault-api/internal/logger"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/pkg/schema/db"
	"go.uber.org/zap"
)

func main() {
	outputFile := flag.String("output", "glossary_embeddings.jsonl", "Output JSONL file path")
	bookID := flag.Int("book-id", 0, "Only export terms of this book")
	flag.Parse()

	_ = godotenv.Load()

	zapLogger, err := logger.NewLogger(appconfig.GetConfig().Environment, appconfig.GetConfig().LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx := context.Background()
	if err := db.InitPostgres(ctx); err != nil {
		zapLogger.Fatal("Failed to initialize PostgreSQL", zap.Error(err))
	}
	defer func() { _ = db.ClosePostgres() }()

	f, err := os.Create(*outputFile)
	if err != nil {
		zapLogger.Fatal("Failed to create output file", zap.Error(err))
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)

	var scope *int
	if *bookID > 0 {
		scope = bookID
	}

	count := 0
	store := ingest.NewStore(db.GetPostgres())
	err = store.EachEmbedding(ctx, scope, func(te models.TermEmbedding) error {
		count++
		if count%1000 == 0 {
			zapLogger.Info("Export progress", zap.Int("exported", count))
		}
		return enc.Encode(ingest.NewDataPoint(te))
	})
	if err != nil {
		zapLogger.Fatal("Export failed", zap.Error(err))
	}
	if err := w.Flush(); err != nil {
		zapLogger.Fatal("Failed to flush output file", zap.Error(err))
	}

	zapLogger.Info("Export complete", zap.Int("exported", count), zap.String("output", *outputFile))
}
