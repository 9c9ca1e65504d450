package vertex

import (
	"context"
	"errors"
	"testing"

	aiplatformpb "cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/googleapis/gax-go/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	resp *aiplatformpb.FindNeighborsResponse
	err  error
	req  *aiplatformpb.FindNeighborsRequest
}

func (f *fakeFinder) FindNeighbors(_ context.Context, req *aiplatformpb.FindNeighborsRequest, _ ...gax.CallOption) (*aiplatformpb.FindNeighborsResponse, error) {
	f.req = req
	return f.resp, f.err
}

func neighbors(pairs ...interface{}) *aiplatformpb.FindNeighborsResponse {
	var ns []*aiplatformpb.FindNeighborsResponse_Neighbor
	for i := 0; i < len(pairs); i += 2 {
		ns = append(ns, &aiplatformpb.FindNeighborsResponse_Neighbor{
			Datapoint: &aiplatformpb.IndexDatapoint{DatapointId: pairs[i].(string)},
			Distance:  pairs[i+1].(float64),
		})
	}
	return &aiplatformpb.FindNeighborsResponse{
		NearestNeighbors: []*aiplatformpb.FindNeighborsResponse_NearestNeighbors{{Neighbors: ns}},
	}
}

func newTestRepo(t *testing.T, finder neighborFinder) (*VectorSearchRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return &VectorSearchRepository{
		config: Config{ProjectID: "p", Location: "us-central1", IndexEndpointID: "e", DeployedIndexID: "glossary"},
		finder: finder,
		db:     sqlx.NewDb(db, "postgres"),
	}, mock
}

func TestSearchByVector_OrderAndThreshold(t *testing.T) {
	finder := &fakeFinder{resp: neighbors("12", 0.2, "7", 0.6, "99", 1.4)}
	repo, mock := newTestRepo(t, finder)

	mock.ExpectQuery(`WHERE g.glossary_id IN \(\$1, \$2\)`).
		WithArgs(12, 7).
		WillReturnRows(sqlmock.NewRows([]string{"glossary_id", "term", "description", "original_book_title", "book_id"}).
			AddRow(7, "snāna", "Ritual bathing", "Jaiva Dharma", 3).
			AddRow(12, "ācamana", "Sipping water for purification", "Jaiva Dharma", 3))

	bookID := 3
	results, err := repo.SearchByVector(context.Background(), []float64{0.1, 0.2}, 5, &bookID, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "ācamana", results[0].Term)
	assert.InDelta(t, 0.9, *results[0].Similarity, 1e-9)
	assert.Equal(t, "snāna", results[1].Term)
	assert.InDelta(t, 0.7, *results[1].Similarity, 1e-9)

	query := finder.req.Queries[0]
	assert.Equal(t, int32(5), query.NeighborCount)
	require.Len(t, query.Datapoint.Restricts, 1)
	assert.Equal(t, BookNamespace, query.Datapoint.Restricts[0].Namespace)
	assert.Equal(t, []string{"3"}, query.Datapoint.Restricts[0].AllowList)
	assert.Equal(t, "projects/p/locations/us-central1/indexEndpoints/e", finder.req.IndexEndpoint)
}

func TestSearchByVector_NoNeighbors(t *testing.T) {
	repo, _ := newTestRepo(t, &fakeFinder{resp: &aiplatformpb.FindNeighborsResponse{}})

	results, err := repo.SearchByVector(context.Background(), []float64{0.1}, 5, nil, 0.5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByVector_AllBelowThreshold(t *testing.T) {
	finder := &fakeFinder{resp: neighbors("1", 1.8)}
	repo, _ := newTestRepo(t, finder)

	results, err := repo.SearchByVector(context.Background(), []float64{0.1}, 5, nil, 0.5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, finder.req.Queries[0].Datapoint.Restricts)
}

func TestSearchByVector_Errors(t *testing.T) {
	repo, _ := newTestRepo(t, &fakeFinder{err: errors.New("unavailable")})

	_, err := repo.SearchByVector(context.Background(), []float64{0.1}, 5, nil, 0.5)
	assert.ErrorContains(t, err, "find neighbors")

	_, err = repo.SearchByVector(context.Background(), nil, 5, nil, 0.5)
	assert.Error(t, err)
}
