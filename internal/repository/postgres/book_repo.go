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

// BookRepository implements repository.BookRepository for PostgreSQL
type BookRepository struct {
	db *sqlx.DB
}

// NewBookRepository creates a new PostgreSQL book repository
func NewBookRepository(db *sqlx.DB) repository.BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = `
	book_id, pdf_name, original_book_title, english_book_title, edition,
	number_of_pages, file_size_bytes, original_author, commentary_author,
	header_height, footer_height, created_at, updated_at, page_label_location,
	toc_pages::text AS toc_pages, verse_pages::text AS verse_pages,
	glossary_pages::text AS glossary_pages, book_summary`

// List returns books ordered by book_id
func (r *BookRepository) List(ctx context.Context, skip, limit int) ([]models.Book, error) {
	books := []models.Book{}
	if err := r.db.SelectContext(ctx, &books, `
		SELECT `+bookColumns+`
		FROM book
		ORDER BY book_id
		OFFSET $1 LIMIT $2
	`, skip, limit); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	for i := range books {
		normalizeBookRanges(&books[i])
	}
	return books, nil
}

// GetByID returns the book or nil when it does not exist
func (r *BookRepository) GetByID(ctx context.Context, bookID int) (*models.Book, error) {
	var book models.Book
	err := r.db.GetContext(ctx, &book, `
		SELECT `+bookColumns+`
		FROM book
		WHERE book_id = $1
	`, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", bookID, err)
	}

	normalizeBookRanges(&book)
	return &book, nil
}

// Count returns the number of books
func (r *BookRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(book_id) FROM book`); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

func normalizeBookRanges(b *models.Book) {
	b.TOCPages = formatRange(b.TOCPages)
	b.VersePages = formatRange(b.VersePages)
	b.GlossaryPages = formatRange(b.GlossaryPages)
}

// formatRange renders a PostgreSQL int4range literal such as "[12,20)" as "12-20".
// Unbounded sides are left empty and "empty" ranges become nil.
func formatRange(value *string) *string {
	if value == nil {
		return nil
	}
	raw := strings.TrimSpace(*value)
	if raw == "" || raw == "empty" {
		return nil
	}

	inner := strings.Trim(raw, "[]()")
	lower, upper, ok := strings.Cut(inner, ",")
	if !ok {
		return value
	}
	out := strings.TrimSpace(lower) + "-" + strings.TrimSpace(upper)
	return &out
}
