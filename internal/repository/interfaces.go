package repository

import (
	"context"

	"github.com/pure-bhakti-vault-api/internal/models"
)

// VectorSearchRepository defines operations for vector similarity search
type VectorSearchRepository interface {
	// SearchByVector returns glossary terms whose similarity to embedding is at least
	// threshold, best match first. bookID restricts the search to one book when non-nil.
	SearchByVector(ctx context.Context, embedding []float64, limit int, bookID *int, threshold float64) ([]models.SearchResult, error)
}

// BookRepository defines operations for book data access
type BookRepository interface {
	List(ctx context.Context, skip, limit int) ([]models.Book, error)
	// GetByID returns nil when the book does not exist
	GetByID(ctx context.Context, bookID int) (*models.Book, error)
	Count(ctx context.Context) (int, error)
}

// ContentRepository defines operations for page content data access
type ContentRepository interface {
	// GetPage returns nil when the page has no content
	GetPage(ctx context.Context, bookID, pageNumber int) (*models.Content, error)
	ListByBook(ctx context.Context, bookID, skip, limit int) ([]models.Content, error)
	CountByBook(ctx context.Context, bookID int) (int, error)
}

// GlossaryRepository defines operations for glossary data access
type GlossaryRepository interface {
	ListByBook(ctx context.Context, bookID, skip, limit int) ([]models.GlossaryTerm, error)
	// GetByTerm returns the first term in the book containing term, or nil
	GetByTerm(ctx context.Context, bookID int, term string) (*models.GlossaryTerm, error)
	CountByBook(ctx context.Context, bookID int) (int, error)
	// SearchAcrossBooks matches term against glossary headwords in every book
	SearchAcrossBooks(ctx context.Context, term string, skip, limit int) ([]models.GlossaryTerm, error)
	// SearchByText matches text against term or description, case-insensitively
	SearchByText(ctx context.Context, text string, limit int, bookID *int) ([]models.SearchResult, error)
}

// PageMapRepository defines operations for page map data access
type PageMapRepository interface {
	ListByType(ctx context.Context, bookID int, pageType string) ([]models.PageMap, error)
	ListByBook(ctx context.Context, bookID, skip, limit int) ([]models.PageMap, error)
	CountByBook(ctx context.Context, bookID int) (int, error)
}

// TocRepository defines operations for table of contents data access
type TocRepository interface {
	ListAll(ctx context.Context, bookID int) ([]models.TableOfContents, error)
	ListByBook(ctx context.Context, bookID, skip, limit int) ([]models.TableOfContents, error)
	CountByBook(ctx context.Context, bookID int) (int, error)
}
