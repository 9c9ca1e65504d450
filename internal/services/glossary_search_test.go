package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchFixture struct {
	embedder *fakeEmbedder
	vectors  *fakeVectorRepo
	glossary *fakeGlossaryRepo
	books    *fakeBookRepo
	svc      *GlossarySearchService
}

func newSearchFixture() *searchFixture {
	f := &searchFixture{
		embedder: &fakeEmbedder{vec: []float64{0.1, 0.2, 0.3}},
		vectors:  &fakeVectorRepo{},
		glossary: &fakeGlossaryRepo{},
		books:    &fakeBookRepo{books: map[int]models.Book{3: {BookID: 3, OriginalBookTitle: "Jaiva Dharma"}}},
	}
	f.svc = NewGlossarySearchService(moderation.NewFilter(nil), f.embedder, f.vectors, f.glossary, f.books, nil)
	return f
}

var acamana = models.SearchResult{
	Term:        "ācamana",
	Description: "Sipping water for purification before worship",
	BookName:    "Jaiva Dharma",
	BookID:      3,
	Similarity:  floatPtr(0.82),
}

func TestHybridSearch_Semantic(t *testing.T) {
	f := newSearchFixture()
	f.vectors.rows = []models.SearchResult{acamana}

	res, err := f.svc.HybridSearch(context.Background(), "  water   purification ritual ", 10, nil)
	require.NoError(t, err)

	assert.Equal(t, models.SearchMethodSemantic, res.Method)
	assert.Equal(t, "water purification ritual", res.Query)
	assert.Equal(t, []models.SearchResult{acamana}, res.Results)
	assert.Empty(t, res.Message)

	require.Len(t, f.vectors.calls, 1)
	assert.Equal(t, DefaultSimilarityThreshold, f.vectors.calls[0].threshold)
	assert.Equal(t, 10, f.vectors.calls[0].limit)
	assert.Nil(t, f.vectors.calls[0].bookID)
	assert.Zero(t, f.glossary.textCalls)
}

func TestHybridSearch_NoMatchesAnywhere(t *testing.T) {
	f := newSearchFixture()

	res, err := f.svc.HybridSearch(context.Background(), "xyzzynonsense123", 10, nil)
	require.NoError(t, err)

	assert.Equal(t, models.SearchMethodText, res.Method)
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
	assert.Equal(t, NoResultsMessage, res.Message)
	assert.Equal(t, 1, f.glossary.textCalls)
}

func TestHybridSearch_FallsBackToText(t *testing.T) {
	textHit := models.SearchResult{Term: "snāna", Description: "Bathing", BookName: "Jaiva Dharma", BookID: 3}

	tests := []struct {
		name  string
		setup func(f *searchFixture)
	}{
		{"zero semantic rows", func(f *searchFixture) {}},
		{"embedding error", func(f *searchFixture) { f.embedder.err = errors.New("connection refused") }},
		{"embedder panic", func(f *searchFixture) { f.embedder.panic = true }},
		{"empty vector", func(f *searchFixture) { f.embedder.vec = []float64{} }},
		{"vector store error", func(f *searchFixture) { f.vectors.err = errors.New("relation does not exist") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSearchFixture()
			f.glossary.textRows = []models.SearchResult{textHit}
			tt.setup(f)

			res, err := f.svc.HybridSearch(context.Background(), "bathing", 5, intPtr(3))
			require.NoError(t, err)

			assert.Equal(t, models.SearchMethodText, res.Method)
			assert.Equal(t, []models.SearchResult{textHit}, res.Results)
			assert.Nil(t, res.Results[0].Similarity)
			assert.Empty(t, res.Message)
			assert.Equal(t, "bathing", f.glossary.lastSearch)
			assert.Equal(t, 5, f.glossary.lastLimit)
		})
	}
}

func TestHybridSearch_Rejected(t *testing.T) {
	tests := []struct {
		query  string
		reason string
	}{
		{"fuuuuuck this", moderation.ReasonInappropriate},
		{"!!!!!!!!!!", moderation.ReasonSpecialChars},
		{"   ", moderation.ReasonEmpty},
		{"a", moderation.ReasonTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := newSearchFixture()

			res, err := f.svc.HybridSearch(context.Background(), tt.query, 10, nil)
			assert.Nil(t, res)

			var rejected *RejectedQueryError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tt.reason, rejected.Reason)

			assert.Zero(t, f.embedder.calls)
			assert.Empty(t, f.vectors.calls)
			assert.Zero(t, f.glossary.textCalls)
		})
	}
}

func TestHybridSearch_UnknownBook(t *testing.T) {
	f := newSearchFixture()

	_, err := f.svc.HybridSearch(context.Background(), "krishna", 10, intPtr(9999))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.embedder.calls)
}

func TestHybridSearch_BookScopePassedThrough(t *testing.T) {
	f := newSearchFixture()
	f.vectors.rows = []models.SearchResult{acamana}

	_, err := f.svc.HybridSearch(context.Background(), "water", 10, intPtr(3))
	require.NoError(t, err)

	require.Len(t, f.vectors.calls, 1)
	require.NotNil(t, f.vectors.calls[0].bookID)
	assert.Equal(t, 3, *f.vectors.calls[0].bookID)
}

func TestHybridSearch_TextStoreErrorFails(t *testing.T) {
	f := newSearchFixture()
	f.embedder.err = errors.New("down")
	f.glossary.textErr = errors.New("connection reset")

	_, err := f.svc.HybridSearch(context.Background(), "water", 10, nil)
	assert.ErrorContains(t, err, "text search")
}

func TestHybridSearch_BookLookupError(t *testing.T) {
	f := newSearchFixture()
	f.books.err = errors.New("db down")

	_, err := f.svc.HybridSearch(context.Background(), "water", 10, intPtr(3))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSearchBookSemantic(t *testing.T) {
	t.Run("results", func(t *testing.T) {
		f := newSearchFixture()
		f.vectors.rows = []models.SearchResult{acamana}

		rows, query, err := f.svc.SearchBookSemantic(context.Background(), 3, "water", 20, 0.7)
		require.NoError(t, err)
		assert.Equal(t, "water", query)
		assert.Len(t, rows, 1)
		require.Len(t, f.vectors.calls, 1)
		assert.Equal(t, 0.7, f.vectors.calls[0].threshold)
		assert.Equal(t, 3, *f.vectors.calls[0].bookID)
	})

	t.Run("no rows is not an error", func(t *testing.T) {
		f := newSearchFixture()

		rows, _, err := f.svc.SearchBookSemantic(context.Background(), 3, "water", 20, DefaultSimilarityThreshold)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
		assert.Zero(t, f.glossary.textCalls)
	})

	t.Run("no vector", func(t *testing.T) {
		f := newSearchFixture()
		f.embedder.err = errors.New("timeout")

		_, _, err := f.svc.SearchBookSemantic(context.Background(), 3, "water", 20, DefaultSimilarityThreshold)
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})

	t.Run("missing book", func(t *testing.T) {
		f := newSearchFixture()

		_, _, err := f.svc.SearchBookSemantic(context.Background(), 9999, "water", 20, DefaultSimilarityThreshold)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejected", func(t *testing.T) {
		f := newSearchFixture()

		_, _, err := f.svc.SearchBookSemantic(context.Background(), 3, "porn", 20, DefaultSimilarityThreshold)
		var rejected *RejectedQueryError
		assert.ErrorAs(t, err, &rejected)
	})
}
