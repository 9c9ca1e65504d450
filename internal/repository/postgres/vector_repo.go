package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/repository"
)

// VectorSearchRepository implements repository.VectorSearchRepository for PostgreSQL with pgvector
type VectorSearchRepository struct {
	db *sqlx.DB
}

// NewVectorSearchRepository creates a new PostgreSQL vector search repository
func NewVectorSearchRepository(db *sqlx.DB) repository.VectorSearchRepository {
	return &VectorSearchRepository{db: db}
}

// SearchByVector ranks glossary term embeddings by similarity to embedding.
// Similarity is 1 - cosine_distance/2, which maps pgvector's [0, 2] distance onto [1, 0].
// All values, including the vector and threshold, are bound parameters.
func (r *VectorSearchRepository) SearchByVector(ctx context.Context, embedding []float64, limit int, bookID *int, threshold float64) ([]models.SearchResult, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("vector search glossary: empty query vector")
	}
	if limit <= 0 {
		return []models.SearchResult{}, nil
	}

	vec := pgvector.NewVector(float32Slice(embedding))

	query := `
		SELECT g.term, g.description, b.original_book_title AS book_name, ge.book_id,
		       1 - ((ge.embedding <=> $1::vector) / 2) AS similarity
		FROM glossary_embeddings ge
		JOIN glossary g ON g.glossary_id = ge.glossary_id AND g.book_id = ge.book_id
		JOIN book b ON b.book_id = ge.book_id
		WHERE 1 - ((ge.embedding <=> $1::vector) / 2) >= $2`

	args := []interface{}{vec, threshold}
	if bookID != nil {
		args = append(args, *bookID)
		query += fmt.Sprintf(" AND ge.book_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(`
		ORDER BY ge.embedding <=> $1::vector, g.term
		LIMIT $%d`, len(args))

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vector search glossary: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var res models.SearchResult
		var similarity float64
		if err := rows.Scan(&res.Term, &res.Description, &res.BookName, &res.BookID, &similarity); err != nil {
			return nil, fmt.Errorf("scan glossary vector result: %w", err)
		}
		res.Similarity = &similarity
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate glossary vector results: %w", err)
	}

	if results == nil {
		results = []models.SearchResult{}
	}
	return results, nil
}

// float32Slice converts []float64 to []float32 for pgvector
func float32Slice(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
