package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vectorColumns = []string{"term", "description", "book_name", "book_id", "similarity"}

func TestSearchByVector_AllBooks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVectorSearchRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("1 - ((ge.embedding <=> $1::vector) / 2) >= $2")).
		WithArgs(sqlmock.AnyArg(), 0.5, 10).
		WillReturnRows(sqlmock.NewRows(vectorColumns).
			AddRow("ācamana", "Sipping water for purification", "Jaiva Dharma", 3, 0.81).
			AddRow("snāna", "Ritual bath", "Bhakti-rasāmṛta-sindhu", 5, 0.64))

	results, err := repo.SearchByVector(context.Background(), []float64{0.1, 0.2, 0.3}, 10, nil, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "ācamana", results[0].Term)
	assert.Equal(t, "Jaiva Dharma", results[0].BookName)
	assert.Equal(t, 3, results[0].BookID)
	require.NotNil(t, results[0].Similarity)
	assert.InDelta(t, 0.81, *results[0].Similarity, 1e-9)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, *results[i].Similarity, *results[i-1].Similarity)
	}
}

func TestSearchByVector_BookScopeIsBound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVectorSearchRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND ge.book_id = $3")).
		WithArgs(sqlmock.AnyArg(), 0.7, 42, 5).
		WillReturnRows(sqlmock.NewRows(vectorColumns))

	results, err := repo.SearchByVector(context.Background(), []float64{1, 0}, 5, intPtr(42), 0.7)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchByVector_InvalidInput(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewVectorSearchRepository(db)

	_, err := repo.SearchByVector(context.Background(), nil, 10, nil, 0.5)
	assert.Error(t, err)

	results, err := repo.SearchByVector(context.Background(), []float64{1}, 0, nil, 0.5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByVector_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVectorSearchRepository(db)

	mock.ExpectQuery("FROM glossary_embeddings").WillReturnError(errors.New("connection reset"))

	_, err := repo.SearchByVector(context.Background(), []float64{1}, 10, nil, 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector search glossary")
}

func TestFloat32Slice(t *testing.T) {
	assert.Equal(t, []float32{0.5, -1, 0}, float32Slice([]float64{0.5, -1, 0}))
	assert.Empty(t, float32Slice(nil))
}
