// Command setup creates the Vertex AI Vector Search index and endpoint for the
// glossary, and deploys one to the other.
//
// Environment variables:
//
//	GCP_PROJECT_ID       - GCP project (falls back to VERTEX_PROJECT_ID)
//	VERTEX_LOCATION      - Region (default: us-central1)
//	GCS_BUCKET_URI       - Folder holding the exported JSONL (e.g. gs://bucket/glossary)
//	INDEX_DISPLAY_NAME   - Display name (default: pure-bhakti-glossary)
//	EMBEDDING_DIMENSIONS - Vector size (default: 1024)
//
// Usage:
//
//	go run ./scripts/setup -create-index
//	go run ./scripts/setup -create-endpoint
//	go run ./scripts/setup -deploy -index-id=XXX -endpoint-id=YYY
//
// Add the printed VERTEX_INDEX_ENDPOINT_ID and VERTEX_DEPLOYED_INDEX_ID to .env and
// set VECTOR_BACKEND=vertex.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	aiplatformpb "cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/joho/godotenv"
	appconfig "github.com/pure-bhakti-vault-api/internal/config"
	"github.com/pure-bhakti-vault-api/internal/ingest"
	"github.com/pure-bhakti-vault-api/internal/logger"
	"github.com/pure-bhakti-vault-api/pkg/schema/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type setup struct {
	endpoint    string
	parent      string
	displayName string
	dimensions  int
	log         *zap.Logger
}

func main() {
	createIndex := flag.Bool("create-index", false, "Create a new index")
	createEndpoint := flag.Bool("create-endpoint", false, "Create a new endpoint")
	deployIndex := flag.Bool("deploy", false, "Deploy index to endpoint")
	indexID := flag.String("index-id", "", "Index ID (for deploy)")
	endpointID := flag.String("endpoint-id", "", "Endpoint ID (for deploy)")
	flag.Parse()

	_ = godotenv.Load()

	zapLogger, err := logger.NewLogger(appconfig.GetConfig().Environment, appconfig.GetConfig().LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		projectID = os.Getenv("VERTEX_PROJECT_ID")
	}
	if projectID == "" {
		zapLogger.Fatal("GCP_PROJECT_ID or VERTEX_PROJECT_ID environment variable is required")
	}

	location := os.Getenv("VERTEX_LOCATION")
	if location == "" {
		location = "us-central1"
	}

	displayName := os.Getenv("INDEX_DISPLAY_NAME")
	if displayName == "" {
		displayName = "pure-bhakti-glossary"
	}
	gcsBucketURI := os.Getenv("GCS_BUCKET_URI")

	s := &setup{
		endpoint:    fmt.Sprintf("%s-aiplatform.googleapis.com:443", location),
		parent:      fmt.Sprintf("projects/%s/locations/%s", projectID, location),
		displayName: displayName,
		dimensions:  config.GetConfig().EmbeddingDimensions,
		log:         zapLogger,
	}

	ctx := context.Background()
	switch {
	case *createIndex:
		if gcsBucketURI == "" {
			zapLogger.Fatal("GCS_BUCKET_URI is required for index creation")
		}
		err = s.createIndex(ctx, gcsBucketURI)
	case *createEndpoint:
		err = s.createEndpoint(ctx)
	case *deployIndex:
		if *indexID == "" || *endpointID == "" {
			zapLogger.Fatal("--index-id and --endpoint-id are required for deployment")
		}
		err = s.deploy(ctx, *indexID, *endpointID)
	default:
		flag.Usage()
		zapLogger.Info("Current configuration",
			zap.String("parent", s.parent),
			zap.String("gcs_bucket_uri", gcsBucketURI),
			zap.String("display_name", s.displayName),
			zap.Int("dimensions", s.dimensions),
		)
	}
	if err != nil {
		zapLogger.Fatal("Setup failed", zap.Error(err))
	}
}

func (s *setup) createIndex(ctx context.Context, contentsURI string) error {
	metadata, err := ingest.IndexMetadata(contentsURI, s.dimensions)
	if err != nil {
		return err
	}

	client, err := aiplatform.NewIndexClient(ctx, option.WithEndpoint(s.endpoint))
	if err != nil {
		return fmt.Errorf("create index client: %w", err)
	}
	defer client.Close()

	op, err := client.CreateIndex(ctx, &aiplatformpb.CreateIndexRequest{
		Parent: s.parent,
		Index: &aiplatformpb.Index{
			DisplayName:       s.displayName,
			Description:       "Glossary term embeddings for Pure Bhakti Vault hybrid search",
			Metadata:          metadata,
			IndexUpdateMethod: aiplatformpb.Index_STREAM_UPDATE,
		},
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.log.Info("Index creation started; this may take 30-60 minutes", zap.String("operation", op.Name()))
	index, err := op.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for index: %w", err)
	}

	s.log.Info("Index created",
		zap.String("name", index.Name),
		zap.String("index_id", ingest.ResourceID(index.Name)),
	)
	return nil
}

func (s *setup) createEndpoint(ctx context.Context) error {
	client, err := aiplatform.NewIndexEndpointClient(ctx, option.WithEndpoint(s.endpoint))
	if err != nil {
		return fmt.Errorf("create endpoint client: %w", err)
	}
	defer client.Close()

	op, err := client.CreateIndexEndpoint(ctx, &aiplatformpb.CreateIndexEndpointRequest{
		Parent: s.parent,
		IndexEndpoint: &aiplatformpb.IndexEndpoint{
			DisplayName:           s.displayName + "-endpoint",
			Description:           "Public endpoint for Pure Bhakti Vault glossary search",
			PublicEndpointEnabled: true,
		},
	})
	if err != nil {
		return fmt.Errorf("create endpoint: %w", err)
	}

	s.log.Info("Endpoint creation started", zap.String("operation", op.Name()))
	indexEndpoint, err := op.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for endpoint: %w", err)
	}

	s.log.Info("Endpoint created",
		zap.String("endpoint_id", ingest.ResourceID(indexEndpoint.Name)),
		zap.String("public_domain", indexEndpoint.PublicEndpointDomainName),
	)
	return nil
}

func (s *setup) deploy(ctx context.Context, indexID, endpointID string) error {
	client, err := aiplatform.NewIndexEndpointClient(ctx, option.WithEndpoint(s.endpoint))
	if err != nil {
		return fmt.Errorf("create endpoint client: %w", err)
	}
	defer client.Close()

	deployedIndexID := ingest.DeployedIndexID(s.displayName, time.Now().Unix())

	op, err := client.DeployIndex(ctx, &aiplatformpb.DeployIndexRequest{
		IndexEndpoint: fmt.Sprintf("%s/indexEndpoints/%s", s.parent, endpointID),
		DeployedIndex: &aiplatformpb.DeployedIndex{
			Id:    deployedIndexID,
			Index: fmt.Sprintf("%s/indexes/%s", s.parent, indexID),
			AutomaticResources: &aiplatformpb.AutomaticResources{
				MinReplicaCount: 1,
				MaxReplicaCount: 2,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deploy index: %w", err)
	}

	s.log.Info("Deployment started; this may take 20-30 minutes", zap.String("operation", op.Name()))
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("wait for deployment: %w", err)
	}

	s.log.Info("Index deployed; add to .env",
		zap.String("VERTEX_INDEX_ENDPOINT_ID", endpointID),
		zap.String("VERTEX_DEPLOYED_INDEX_ID", deployedIndexID),
	)
	return nil
}
