package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/repository"
)

// GlossaryRepository implements repository.GlossaryRepository for PostgreSQL
type GlossaryRepository struct {
	db *sqlx.DB
}

// NewGlossaryRepository creates a new PostgreSQL glossary repository
func NewGlossaryRepository(db *sqlx.DB) repository.GlossaryRepository {
	return &GlossaryRepository{db: db}
}

const glossaryWithBook = `
	SELECT g.glossary_id, g.book_id, g.term, g.description, g.created_at, g.updated_at,
	       b.original_book_title AS book_name
	FROM glossary g
	JOIN book b ON b.book_id = g.book_id`

// ListByBook returns a book's glossary ordered by term
func (r *GlossaryRepository) ListByBook(ctx context.Context, bookID, skip, limit int) ([]models.GlossaryTerm, error) {
	terms := []models.GlossaryTerm{}
	if err := r.db.SelectContext(ctx, &terms, glossaryWithBook+`
		WHERE g.book_id = $1
		ORDER BY g.term
		OFFSET $2 LIMIT $3
	`, bookID, skip, limit); err != nil {
		return nil, fmt.Errorf("list glossary of book %d: %w", bookID, err)
	}
	return terms, nil
}

// GetByTerm returns the first glossary entry of the book whose term contains term
func (r *GlossaryRepository) GetByTerm(ctx context.Context, bookID int, term string) (*models.GlossaryTerm, error) {
	var gt models.GlossaryTerm
	err := r.db.GetContext(ctx, &gt, glossaryWithBook+`
		WHERE g.book_id = $1 AND g.term ILIKE $2
		ORDER BY g.term
		LIMIT 1
	`, bookID, containsPattern(term))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get glossary term %q of book %d: %w", term, bookID, err)
	}
	return &gt, nil
}

// CountByBook returns the number of glossary terms of a book
func (r *GlossaryRepository) CountByBook(ctx context.Context, bookID int) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(glossary_id) FROM glossary WHERE book_id = $1
	`, bookID); err != nil {
		return 0, fmt.Errorf("count glossary of book %d: %w", bookID, err)
	}
	return total, nil
}

// SearchAcrossBooks finds terms containing term in every book, ordered by book name then term
func (r *GlossaryRepository) SearchAcrossBooks(ctx context.Context, term string, skip, limit int) ([]models.GlossaryTerm, error) {
	terms := []models.GlossaryTerm{}
	if err := r.db.SelectContext(ctx, &terms, glossaryWithBook+`
		WHERE g.term ILIKE $1
		ORDER BY b.original_book_title, g.term
		OFFSET $2 LIMIT $3
	`, containsPattern(term), skip, limit); err != nil {
		return nil, fmt.Errorf("search glossary terms across books: %w", err)
	}
	return terms, nil
}

// SearchByText is the lexical glossary search: a case-insensitive substring match
// on term or description, ordered by term. No similarity is attached.
func (r *GlossaryRepository) SearchByText(ctx context.Context, text string, limit int, bookID *int) ([]models.SearchResult, error) {
	if limit <= 0 {
		return []models.SearchResult{}, nil
	}

	query := `
		SELECT g.term, g.description, b.original_book_title AS book_name, g.book_id
		FROM glossary g
		JOIN book b ON b.book_id = g.book_id
		WHERE (g.term ILIKE $1 OR g.description ILIKE $1)`

	args := []interface{}{containsPattern(text)}
	if bookID != nil {
		args = append(args, *bookID)
		query += fmt.Sprintf(" AND g.book_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(`
		ORDER BY g.term, b.original_book_title
		LIMIT $%d`, len(args))

	results := []models.SearchResult{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("text search glossary: %w", err)
	}
	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching text literally anywhere in a value.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}
