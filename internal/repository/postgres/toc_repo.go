package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/repository"
)

// TocRepository implements repository.TocRepository for PostgreSQL
type TocRepository struct {
	db *sqlx.DB
}

// NewTocRepository creates a new PostgreSQL table of contents repository
func NewTocRepository(db *sqlx.DB) repository.TocRepository {
	return &TocRepository{db: db}
}

// Entries are stored in reading order, so toc_id is the document order.
const tocSelect = `
	SELECT toc_id, book_id, parent_toc_id, toc_level, toc_label, page_label, page_number
	FROM table_of_contents
	WHERE book_id = $1
	ORDER BY toc_id`

// ListAll returns the complete table of contents of a book
func (r *TocRepository) ListAll(ctx context.Context, bookID int) ([]models.TableOfContents, error) {
	entries := []models.TableOfContents{}
	if err := r.db.SelectContext(ctx, &entries, tocSelect, bookID); err != nil {
		return nil, fmt.Errorf("list toc of book %d: %w", bookID, err)
	}
	return entries, nil
}

// ListByBook returns one page of a book's table of contents
func (r *TocRepository) ListByBook(ctx context.Context, bookID, skip, limit int) ([]models.TableOfContents, error) {
	entries := []models.TableOfContents{}
	if err := r.db.SelectContext(ctx, &entries, tocSelect+`
	OFFSET $2 LIMIT $3`, bookID, skip, limit); err != nil {
		return nil, fmt.Errorf("list toc page of book %d: %w", bookID, err)
	}
	return entries, nil
}

// CountByBook returns the number of table of contents entries of a book
func (r *TocRepository) CountByBook(ctx context.Context, bookID int) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(toc_id) FROM table_of_contents WHERE book_id = $1
	`, bookID); err != nil {
		return 0, fmt.Errorf("count toc of book %d: %w", bookID, err)
	}
	return total, nil
}
