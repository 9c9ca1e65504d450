package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	aiplatformpb "cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/repository/vertex"
	"google.golang.org/protobuf/types/known/structpb"
)

// UpsertBatchSize is the number of datapoints per UpsertDatapoints request
const UpsertBatchSize = 100

// DataPoint is one line of a Vertex AI Vector Search JSONL import file
type DataPoint struct {
	ID        string     `json:"id"`
	Embedding []float32  `json:"embedding"`
	Restricts []Restrict `json:"restricts,omitempty"`
}

// Restrict defines a token-based filter
type Restrict struct {
	Namespace string   `json:"namespace"`
	Allow     []string `json:"allow"`
}

// NewDataPoint converts a term embedding to its JSONL form. The datapoint ID is the
// glossary_id and the book restrict holds the book_id.
func NewDataPoint(te models.TermEmbedding) DataPoint {
	return DataPoint{
		ID:        strconv.Itoa(te.GlossaryID),
		Embedding: te.Embedding,
		Restricts: []Restrict{{Namespace: vertex.BookNamespace, Allow: []string{strconv.Itoa(te.BookID)}}},
	}
}

// NewIndexDatapoint converts a term embedding to an UpsertDatapoints datapoint
func NewIndexDatapoint(te models.TermEmbedding) *aiplatformpb.IndexDatapoint {
	return &aiplatformpb.IndexDatapoint{
		DatapointId:   strconv.Itoa(te.GlossaryID),
		FeatureVector: te.Embedding,
		Restricts: []*aiplatformpb.IndexDatapoint_Restriction{
			{
				Namespace: vertex.BookNamespace,
				AllowList: []string{strconv.Itoa(te.BookID)},
			},
		},
	}
}

// IndexMetadata builds the tree-AH cosine index metadata for a streaming index of
// the given dimension seeded from contentsURI.
func IndexMetadata(contentsURI string, dimensions int) (*structpb.Value, error) {
	metadata, err := structpb.NewStruct(map[string]interface{}{
		"contentsDeltaUri": contentsURI,
		"config": map[string]interface{}{
			"dimensions":                dimensions,
			"approximateNeighborsCount": 150,
			"distanceMeasureType":       "COSINE_DISTANCE",
			"algorithmConfig": map[string]interface{}{
				"treeAhConfig": map[string]interface{}{
					"leafNodeEmbeddingCount":   1000,
					"leafNodesToSearchPercent": 5,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build index metadata: %w", err)
	}
	return structpb.NewStructValue(metadata), nil
}

// ResourceID returns the last path component of a resource name such as
// projects/X/locations/Y/indexes/Z.
func ResourceID(resourceName string) string {
	if i := strings.LastIndex(resourceName, "/"); i >= 0 {
		return resourceName[i+1:]
	}
	return resourceName
}

// DeployedIndexID derives a deployed index id from a display name. Deployed ids
// allow only letters, digits and underscores and must start with a letter.
func DeployedIndexID(displayName string, unix int64) string {
	var b strings.Builder
	for _, r := range displayName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return fmt.Sprintf("deployed_%s_%d", b.String(), unix)
}

type datapointUpserter interface {
	UpsertDatapoints(ctx context.Context, req *aiplatformpb.UpsertDatapointsRequest, opts ...gax.CallOption) (*aiplatformpb.UpsertDatapointsResponse, error)
}

// IndexUpserter streams term embeddings into an index in fixed-size batches
type IndexUpserter struct {
	client    datapointUpserter
	indexName string
	batchSize int
	batch     []*aiplatformpb.IndexDatapoint
	sent      int
}

// NewIndexUpserter creates an upserter for the index resource indexName
func NewIndexUpserter(client datapointUpserter, indexName string, batchSize int) *IndexUpserter {
	if batchSize <= 0 {
		batchSize = UpsertBatchSize
	}
	return &IndexUpserter{client: client, indexName: indexName, batchSize: batchSize}
}

// Add queues te and sends a request once the batch is full
func (u *IndexUpserter) Add(ctx context.Context, te models.TermEmbedding) error {
	u.batch = append(u.batch, NewIndexDatapoint(te))
	if len(u.batch) >= u.batchSize {
		return u.Flush(ctx)
	}
	return nil
}

// Flush sends any queued datapoints
func (u *IndexUpserter) Flush(ctx context.Context) error {
	if len(u.batch) == 0 {
		return nil
	}
	_, err := u.client.UpsertDatapoints(ctx, &aiplatformpb.UpsertDatapointsRequest{
		Index:      u.indexName,
		Datapoints: u.batch,
	})
	if err != nil {
		return fmt.Errorf("upsert %d datapoints: %w", len(u.batch), err)
	}
	u.sent += len(u.batch)
	u.batch = nil
	return nil
}

// Sent returns the number of datapoints accepted by the index
func (u *IndexUpserter) Sent() int {
	return u.sent
}
