package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/repository"
)

// ContentRepository implements repository.ContentRepository for PostgreSQL
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new PostgreSQL content repository
func NewContentRepository(db *sqlx.DB) repository.ContentRepository {
	return &ContentRepository{db: db}
}

// GetPage returns the content of one page, or nil when the page has none
func (r *ContentRepository) GetPage(ctx context.Context, bookID, pageNumber int) (*models.Content, error) {
	var content models.Content
	err := r.db.GetContext(ctx, &content, `
		SELECT content_id, book_id, page_number, page_content, created_at, updated_at
		FROM content
		WHERE book_id = $1 AND page_number = $2
		LIMIT 1
	`, bookID, pageNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get page %d of book %d: %w", pageNumber, bookID, err)
	}
	return &content, nil
}

// ListByBook returns a book's pages ordered by page number
func (r *ContentRepository) ListByBook(ctx context.Context, bookID, skip, limit int) ([]models.Content, error) {
	content := []models.Content{}
	if err := r.db.SelectContext(ctx, &content, `
		SELECT content_id, book_id, page_number, page_content, created_at, updated_at
		FROM content
		WHERE book_id = $1
		ORDER BY page_number
		OFFSET $2 LIMIT $3
	`, bookID, skip, limit); err != nil {
		return nil, fmt.Errorf("list content of book %d: %w", bookID, err)
	}
	return content, nil
}

// CountByBook returns the number of content pages of a book
func (r *ContentRepository) CountByBook(ctx context.Context, bookID int) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(content_id) FROM content WHERE book_id = $1
	`, bookID); err != nil {
		return 0, fmt.Errorf("count content of book %d: %w", bookID, err)
	}
	return total, nil
}
