package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/repository"
)

// PageMapRepository implements repository.PageMapRepository for PostgreSQL
type PageMapRepository struct {
	db *sqlx.DB
}

// NewPageMapRepository creates a new PostgreSQL page map repository
func NewPageMapRepository(db *sqlx.DB) repository.PageMapRepository {
	return &PageMapRepository{db: db}
}

const pageMapColumns = `page_map_id, book_id, page_number, page_label, page_type, page_header, created_at`

// ListByType returns every page of the given type ordered by page number
func (r *PageMapRepository) ListByType(ctx context.Context, bookID int, pageType string) ([]models.PageMap, error) {
	pages := []models.PageMap{}
	if err := r.db.SelectContext(ctx, &pages, `
		SELECT `+pageMapColumns+`
		FROM page_map
		WHERE book_id = $1 AND page_type = $2
		ORDER BY page_number
	`, bookID, pageType); err != nil {
		return nil, fmt.Errorf("list %s pages of book %d: %w", pageType, bookID, err)
	}
	return pages, nil
}

// ListByBook returns the page map of a book ordered by page number
func (r *PageMapRepository) ListByBook(ctx context.Context, bookID, skip, limit int) ([]models.PageMap, error) {
	pages := []models.PageMap{}
	if err := r.db.SelectContext(ctx, &pages, `
		SELECT `+pageMapColumns+`
		FROM page_map
		WHERE book_id = $1
		ORDER BY page_number
		OFFSET $2 LIMIT $3
	`, bookID, skip, limit); err != nil {
		return nil, fmt.Errorf("list page map of book %d: %w", bookID, err)
	}
	return pages, nil
}

// CountByBook returns the number of page map entries of a book
func (r *PageMapRepository) CountByBook(ctx context.Context, bookID int) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(page_map_id) FROM page_map WHERE book_id = $1
	`, bookID); err != nil {
		return 0, fmt.Errorf("count page map of book %d: %w", bookID, err)
	}
	return total, nil
}
