package vertex

import (
	"context"
	"fmt"
	"strconv"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	aiplatformpb "cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/jmoiron/sqlx"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/repository"
	"google.golang.org/api/option"
)

// Ensure VectorSearchRepository implements repository.VectorSearchRepository
var _ repository.VectorSearchRepository = (*VectorSearchRepository)(nil)

// BookNamespace is the restrict namespace holding a datapoint's book_id.
const BookNamespace = "book"

// Config holds Vertex AI Vector Search configuration
type Config struct {
	ProjectID            string // GCP project ID
	Location             string // e.g., "us-central1"
	IndexEndpointID      string // Deployed index endpoint ID
	DeployedIndexID      string // The deployed index ID within the endpoint
	PublicEndpointDomain string // Public endpoint domain for queries (e.g., "123.us-central1-456.vdb.vertexai.goog")
}

// IndexEndpoint returns the full resource name of the index endpoint
func (c Config) IndexEndpoint() string {
	return fmt.Sprintf("projects/%s/locations/%s/indexEndpoints/%s", c.ProjectID, c.Location, c.IndexEndpointID)
}

// neighborFinder is the subset of the match client used for queries
type neighborFinder interface {
	FindNeighbors(ctx context.Context, req *aiplatformpb.FindNeighborsRequest, opts ...gax.CallOption) (*aiplatformpb.FindNeighborsResponse, error)
}

// VectorSearchRepository implements repository.VectorSearchRepository using Vertex AI Vector Search.
// Datapoint IDs are glossary_id values; term text is read back from PostgreSQL.
type VectorSearchRepository struct {
	config      Config
	finder      neighborFinder
	matchClient *aiplatform.MatchClient
	db          *sqlx.DB
}

// NewVectorSearchRepository creates a new Vertex AI vector search repository
func NewVectorSearchRepository(ctx context.Context, config Config, db *sqlx.DB) (*VectorSearchRepository, error) {
	var endpoint string
	if config.PublicEndpointDomain != "" {
		endpoint = fmt.Sprintf("%s:443", config.PublicEndpointDomain)
	} else {
		endpoint = fmt.Sprintf("%s-aiplatform.googleapis.com:443", config.Location)
	}

	matchClient, err := aiplatform.NewMatchClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create match client: %w", err)
	}

	return &VectorSearchRepository{
		config:      config,
		finder:      matchClient,
		matchClient: matchClient,
		db:          db,
	}, nil
}

// Close closes the Vertex AI client
func (r *VectorSearchRepository) Close() error {
	if r.matchClient != nil {
		return r.matchClient.Close()
	}
	return nil
}

// SearchByVector asks the deployed index for the nearest glossary terms and keeps
// those whose similarity (1 - distance/2) reaches threshold.
func (r *VectorSearchRepository) SearchByVector(ctx context.Context, embedding []float64, limit int, bookID *int, threshold float64) ([]models.SearchResult, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("vertex search glossary: empty query vector")
	}
	if limit <= 0 {
		return []models.SearchResult{}, nil
	}

	resp, err := r.finder.FindNeighbors(ctx, r.buildRequest(embedding, limit, bookID))
	if err != nil {
		return nil, fmt.Errorf("find neighbors: %w", err)
	}

	if len(resp.NearestNeighbors) == 0 || len(resp.NearestNeighbors[0].Neighbors) == 0 {
		return []models.SearchResult{}, nil
	}

	var ids []int
	scores := make(map[int]float64)
	for _, neighbor := range resp.NearestNeighbors[0].Neighbors {
		id, err := strconv.Atoi(neighbor.GetDatapoint().GetDatapointId())
		if err != nil {
			continue
		}
		similarity := 1 - neighbor.Distance/2
		if similarity < threshold {
			continue
		}
		if _, dup := scores[id]; dup {
			continue
		}
		ids = append(ids, id)
		scores[id] = similarity
	}

	results, err := r.lookupTerms(ctx, ids, scores)
	if err != nil {
		return nil, fmt.Errorf("lookup glossary terms: %w", err)
	}
	return results, nil
}

func (r *VectorSearchRepository) buildRequest(embedding []float64, limit int, bookID *int) *aiplatformpb.FindNeighborsRequest {
	featureVector := make([]float32, len(embedding))
	for i, v := range embedding {
		featureVector[i] = float32(v)
	}

	datapoint := &aiplatformpb.IndexDatapoint{FeatureVector: featureVector}
	if bookID != nil {
		datapoint.Restricts = []*aiplatformpb.IndexDatapoint_Restriction{
			{Namespace: BookNamespace, AllowList: []string{strconv.Itoa(*bookID)}},
		}
	}

	return &aiplatformpb.FindNeighborsRequest{
		IndexEndpoint:   r.config.IndexEndpoint(),
		DeployedIndexId: r.config.DeployedIndexID,
		Queries: []*aiplatformpb.FindNeighborsRequest_Query{
			{
				Datapoint:     datapoint,
				NeighborCount: int32(limit),
			},
		},
	}
}

// lookupTerms reads glossary rows for ids and returns them in the index's ranking order
func (r *VectorSearchRepository) lookupTerms(ctx context.Context, ids []int, scores map[int]float64) ([]models.SearchResult, error) {
	if len(ids) == 0 {
		return []models.SearchResult{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT g.glossary_id, g.term, g.description, b.original_book_title, g.book_id
		FROM glossary g
		JOIN book b ON b.book_id = g.book_id
		WHERE g.glossary_id IN (?)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("build IN query: %w", err)
	}

	// Rebind for PostgreSQL
	query = r.db.Rebind(query)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query glossary: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]models.SearchResult, len(ids))
	for rows.Next() {
		var (
			id int
			sr models.SearchResult
		)
		if err := rows.Scan(&id, &sr.Term, &sr.Description, &sr.BookName, &sr.BookID); err != nil {
			return nil, fmt.Errorf("scan glossary term: %w", err)
		}
		similarity := scores[id]
		sr.Similarity = &similarity
		byID[id] = sr
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate glossary terms: %w", err)
	}

	results := make([]models.SearchResult, 0, len(ids))
	for _, id := range ids {
		if sr, ok := byID[id]; ok {
			results = append(results, sr)
		}
	}
	return results, nil
}
