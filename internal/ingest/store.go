package ingest

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
	"github.com/pure-bhakti-vault-api/internal/models"
)

// Store reads glossary terms and reads/writes their embeddings
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new ingestion store
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// PendingTerms returns glossary terms without an embedding, or whose embedding is older
// than the term. force selects every term. bookID restricts to one book when non-nil.
func (s *Store) PendingTerms(ctx context.Context, bookID *int, force bool) ([]models.GlossaryTerm, error) {
	query := `
		SELECT g.glossary_id, g.book_id, g.term, g.description
		FROM glossary g
		LEFT JOIN glossary_embeddings ge ON ge.glossary_id = g.glossary_id
		WHERE TRUE`
	if !force {
		query += ` AND (ge.glossary_id IS NULL OR ge.updated_at < g.updated_at)`
	}

	var args []interface{}
	if bookID != nil {
		args = append(args, *bookID)
		query += fmt.Sprintf(" AND g.book_id = $%d", len(args))
	}
	query += `
		ORDER BY g.glossary_id`

	terms := []models.GlossaryTerm{}
	if err := s.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, fmt.Errorf("list pending glossary terms: %w", err)
	}
	return terms, nil
}

// UpsertEmbeddings writes embeddings in one transaction
func (s *Store) UpsertEmbeddings(ctx context.Context, embeddings []models.TermEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, te := range embeddings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO glossary_embeddings (glossary_id, book_id, term, embedding, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			ON CONFLICT (glossary_id) DO UPDATE
			SET book_id = EXCLUDED.book_id,
			    term = EXCLUDED.term,
			    embedding = EXCLUDED.embedding,
			    updated_at = NOW()
		`, te.GlossaryID, te.BookID, te.Term, pgvector.NewVector(te.Embedding)); err != nil {
			return fmt.Errorf("upsert embedding %d: %w", te.GlossaryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit embeddings: %w", err)
	}
	return nil
}

// EachEmbedding calls fn for every stored embedding ordered by book then glossary id,
// stopping at the first error.
func (s *Store) EachEmbedding(ctx context.Context, bookID *int, fn func(models.TermEmbedding) error) error {
	query := `
		SELECT glossary_id, book_id, term, embedding
		FROM glossary_embeddings`
	var args []interface{}
	if bookID != nil {
		args = append(args, *bookID)
		query += ` WHERE book_id = $1`
	}
	query += `
		ORDER BY book_id, glossary_id`

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			te  models.TermEmbedding
			vec pgvector.Vector
		)
		if err := rows.Scan(&te.GlossaryID, &te.BookID, &te.Term, &vec); err != nil {
			return fmt.Errorf("scan embedding: %w", err)
		}
		te.Embedding = vec.Slice()
		if err := fn(te); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate embeddings: %w", err)
	}
	return nil
}
