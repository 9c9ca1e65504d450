package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/pure-bhakti-vault-api/internal/models"
	pkgservices "github.com/pure-bhakti-vault-api/pkg/schema/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	terms    []models.GlossaryTerm
	err      error
	upserted []models.TermEmbedding
	upErr    error
}

func (f *fakeStore) PendingTerms(ctx context.Context, bookID *int, force bool) ([]models.GlossaryTerm, error) {
	return f.terms, f.err
}

func (f *fakeStore) UpsertEmbeddings(ctx context.Context, embeddings []models.TermEmbedding) error {
	if f.upErr != nil {
		return f.upErr
	}
	f.upserted = append(f.upserted, embeddings...)
	return nil
}

type fakeBatchEmbedder struct {
	dims   int
	failOn string
	texts  []string
}

func (f *fakeBatchEmbedder) Embed(ctx context.Context, text string, taskType pkgservices.TaskType) ([]float64, error) {
	return make([]float64, f.dims), nil
}

func (f *fakeBatchEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType pkgservices.TaskType) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if text == f.failOn {
			return nil, errors.New("backend down")
		}
		f.texts = append(f.texts, text)
		out[i] = make([]float64, f.dims)
		out[i][0] = float64(i)
	}
	return out, nil
}

func glossaryTerms(n int) []models.GlossaryTerm {
	terms := make([]models.GlossaryTerm, n)
	for i := range terms {
		terms[i] = models.GlossaryTerm{GlossaryID: i + 1, BookID: 3, Term: "term", Description: "desc"}
	}
	return terms
}

func TestDocumentText(t *testing.T) {
	assert.Equal(t, "prema: pure love", DocumentText(" prema ", "pure love"))
	assert.Equal(t, "prema", DocumentText("prema", "  "))
}

func TestEmbedJob_Run(t *testing.T) {
	store := &fakeStore{terms: glossaryTerms(5)}
	embedder := &fakeBatchEmbedder{dims: 4}
	job := NewEmbedJob(store, embedder, 4, 2, nil)

	stats, err := job.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Candidates: 5, Embedded: 5}, stats)
	require.Len(t, store.upserted, 5)
	assert.Equal(t, 5, store.upserted[4].GlossaryID)
	assert.Len(t, store.upserted[0].Embedding, 4)
	assert.Equal(t, "term: desc", embedder.texts[0])
}

func TestEmbedJob_DryRun(t *testing.T) {
	store := &fakeStore{terms: glossaryTerms(3)}
	embedder := &fakeBatchEmbedder{dims: 4}
	job := NewEmbedJob(store, embedder, 4, 2, nil)

	stats, err := job.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Candidates)
	assert.Empty(t, store.upserted)
	assert.Empty(t, embedder.texts)
}

func TestEmbedJob_SkipsFailedBatch(t *testing.T) {
	terms := glossaryTerms(4)
	terms[2].Term = "broken"
	terms[2].Description = ""
	store := &fakeStore{terms: terms}
	job := NewEmbedJob(store, &fakeBatchEmbedder{dims: 4, failOn: "broken"}, 4, 2, nil)

	stats, err := job.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Candidates: 4, Embedded: 2, Failed: 2}, stats)
}

func TestEmbedJob_WrongDimensionFailsBatch(t *testing.T) {
	store := &fakeStore{terms: glossaryTerms(2)}
	job := NewEmbedJob(store, &fakeBatchEmbedder{dims: 3}, 1024, 10, nil)

	stats, err := job.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Failed)
	assert.Empty(t, store.upserted)
}

func TestEmbedJob_StorageErrorAborts(t *testing.T) {
	store := &fakeStore{terms: glossaryTerms(2), upErr: errors.New("db gone")}
	job := NewEmbedJob(store, &fakeBatchEmbedder{dims: 4}, 4, 10, nil)

	_, err := job.Run(context.Background(), Options{})
	assert.ErrorContains(t, err, "db gone")
}
