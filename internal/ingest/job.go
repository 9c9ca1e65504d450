package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/pure-bhakti-vault-api/internal/models"
	pkgservices "github.com/pure-bhakti-vault-api/pkg/schema/services"
	"go.uber.org/zap"
)

// DefaultBatchSize is the number of terms embedded per backend call
const DefaultBatchSize = 32

// Options select which terms an EmbedJob processes
type Options struct {
	BookID *int
	Force  bool
	DryRun bool
}

// Stats summarizes an EmbedJob run
type Stats struct {
	Candidates int
	Embedded   int
	Failed     int
}

// termStore is the part of Store used by EmbedJob
type termStore interface {
	PendingTerms(ctx context.Context, bookID *int, force bool) ([]models.GlossaryTerm, error)
	UpsertEmbeddings(ctx context.Context, embeddings []models.TermEmbedding) error
}

// EmbedJob computes embeddings for glossary terms and stores them
type EmbedJob struct {
	store      termStore
	embedder   pkgservices.Embedder
	dimensions int
	batchSize  int
	logger     *zap.Logger
}

// NewEmbedJob creates an embedding job. Vectors must have exactly dimensions entries.
func NewEmbedJob(store termStore, embedder pkgservices.Embedder, dimensions, batchSize int, logger *zap.Logger) *EmbedJob {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbedJob{
		store:      store,
		embedder:   embedder,
		dimensions: dimensions,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// DocumentText is the text embedded for a glossary term
func DocumentText(term, description string) string {
	term = strings.TrimSpace(term)
	description = strings.TrimSpace(description)
	if description == "" {
		return term
	}
	return term + ": " + description
}

// Run embeds every pending term. A batch that fails to embed is logged and skipped;
// a storage failure aborts the run.
func (j *EmbedJob) Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	terms, err := j.store.PendingTerms(ctx, opts.BookID, opts.Force)
	if err != nil {
		return stats, err
	}
	stats.Candidates = len(terms)
	j.logger.Info("glossary terms to embed", zap.Int("count", len(terms)), zap.Bool("dry_run", opts.DryRun))

	if opts.DryRun {
		return stats, nil
	}

	for start := 0; start < len(terms); start += j.batchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		end := start + j.batchSize
		if end > len(terms) {
			end = len(terms)
		}
		batch := terms[start:end]

		embedded, err := j.embedBatch(ctx, batch)
		if err != nil {
			stats.Failed += len(batch)
			j.logger.Warn("embedding batch failed",
				zap.Int("first_glossary_id", batch[0].GlossaryID),
				zap.Int("size", len(batch)),
				zap.Error(err),
			)
			continue
		}

		if err := j.store.UpsertEmbeddings(ctx, embedded); err != nil {
			return stats, err
		}
		stats.Embedded += len(embedded)
		j.logger.Info("batch stored", zap.Int("embedded", stats.Embedded), zap.Int("of", stats.Candidates))
	}

	return stats, nil
}

func (j *EmbedJob) embedBatch(ctx context.Context, batch []models.GlossaryTerm) ([]models.TermEmbedding, error) {
	texts := make([]string, len(batch))
	for i, t := range batch {
		texts[i] = DocumentText(t.Term, t.Description)
	}

	vectors, err := j.embedder.EmbedBatch(ctx, texts, pkgservices.TaskTypeDocument)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("got %d vectors for %d terms", len(vectors), len(batch))
	}

	out := make([]models.TermEmbedding, len(batch))
	for i, t := range batch {
		if j.dimensions > 0 && len(vectors[i]) != j.dimensions {
			return nil, fmt.Errorf("glossary term %d: got %d dimensions, want %d", t.GlossaryID, len(vectors[i]), j.dimensions)
		}
		vec := make([]float32, len(vectors[i]))
		for k, v := range vectors[i] {
			vec[k] = float32(v)
		}
		out[i] = models.TermEmbedding{GlossaryID: t.GlossaryID, BookID: t.BookID, Term: t.Term, Embedding: vec}
	}
	return out, nil
}
