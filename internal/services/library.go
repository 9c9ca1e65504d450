package services

import (
	"context"
	"fmt"

	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/repository"
)

// LibraryService serves books and their page content, glossaries, page maps and tables of contents.
// Every book-scoped method returns ErrNotFound when the book does not exist.
type LibraryService struct {
	books    repository.BookRepository
	content  repository.ContentRepository
	glossary repository.GlossaryRepository
	pageMaps repository.PageMapRepository
	toc      repository.TocRepository
}

// NewLibraryService creates a new library service
func NewLibraryService(
	books repository.BookRepository,
	content repository.ContentRepository,
	glossary repository.GlossaryRepository,
	pageMaps repository.PageMapRepository,
	toc repository.TocRepository,
) *LibraryService {
	return &LibraryService{
		books:    books,
		content:  content,
		glossary: glossary,
		pageMaps: pageMaps,
		toc:      toc,
	}
}

// Page is a 1-based page number and page size
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// ListBooks returns one page of books and the total count
func (s *LibraryService) ListBooks(ctx context.Context, page Page) (*models.BookListResponse, error) {
	books, err := s.books.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	total, err := s.books.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &models.BookListResponse{Books: books, Total: total, Page: page.Number, Size: page.Size}, nil
}

// GetBook returns one book
func (s *LibraryService) GetBook(ctx context.Context, bookID int) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	return book, nil
}

// GetPageContent returns the text of one page. A page without content is not an
// error; the response then carries a message instead.
func (s *LibraryService) GetPageContent(ctx context.Context, bookID, pageNumber int) (*models.ContentResponse, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	content, err := s.content.GetPage(ctx, bookID, pageNumber)
	if err != nil {
		return nil, err
	}
	if content == nil {
		msg := fmt.Sprintf("No content found for book %d, page %d", bookID, pageNumber)
		return &models.ContentResponse{Message: &msg}, nil
	}
	return &models.ContentResponse{Content: content}, nil
}

// ListContent returns one page of a book's content, ordered by page number
func (s *LibraryService) ListContent(ctx context.Context, bookID int, page Page) (*models.ContentListResponse, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	content, err := s.content.ListByBook(ctx, bookID, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	total, err := s.content.CountByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &models.ContentListResponse{Content: content, Total: total, Page: page.Number, Size: page.Size, BookID: bookID}, nil
}

// ListGlossary returns one page of a book's glossary, ordered by term
func (s *LibraryService) ListGlossary(ctx context.Context, bookID int, page Page) (*models.GlossaryListResponse, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	terms, err := s.glossary.ListByBook(ctx, bookID, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	total, err := s.glossary.CountByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &models.GlossaryListResponse{GlossaryTerms: terms, Total: total, Page: page.Number, Size: page.Size, BookID: bookID}, nil
}

// GetGlossaryTerm looks a term up by (partial) name within one book
func (s *LibraryService) GetGlossaryTerm(ctx context.Context, bookID int, term string) (*models.GlossaryTermResponse, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	gt, err := s.glossary.GetByTerm(ctx, bookID, term)
	if err != nil {
		return nil, err
	}
	if gt == nil {
		msg := fmt.Sprintf("No glossary term matching '%s' found in book %d", term, bookID)
		return &models.GlossaryTermResponse{Message: &msg}, nil
	}
	return &models.GlossaryTermResponse{Term: gt}, nil
}

// SearchGlossaryTerms finds terms by name across all books. Total is the size of
// the returned page.
func (s *LibraryService) SearchGlossaryTerms(ctx context.Context, term string, page Page) (*models.GlossarySearchResponse, error) {
	terms, err := s.glossary.SearchAcrossBooks(ctx, term, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	return &models.GlossarySearchResponse{GlossaryTerms: terms, Total: len(terms), Page: page.Number, Size: page.Size, SearchTerm: term}, nil
}

// CorePages lists the book's Core pages, or its Primary pages when it has no Core pages
func (s *LibraryService) CorePages(ctx context.Context, bookID int) (*models.CorePagesResponse, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	pages, err := s.pageMaps.ListByType(ctx, bookID, models.PageTypeCore)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		pages, err = s.pageMaps.ListByType(ctx, bookID, models.PageTypePrimary)
		if err != nil {
			return nil, err
		}
	}

	infos := make([]models.CorePageInfo, len(pages))
	for i, p := range pages {
		infos[i] = models.CorePageInfo{PageNumber: p.PageNumber, PageLabel: p.PageLabel}
	}
	return &models.CorePagesResponse{Pages: infos, Total: len(infos), BookID: bookID}, nil
}

// PageMap returns one page of a book's page map
func (s *LibraryService) PageMap(ctx context.Context, bookID int, page Page) (*models.FullPageMapResponse, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	maps, err := s.pageMaps.ListByBook(ctx, bookID, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	total, err := s.pageMaps.CountByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &models.FullPageMapResponse{PageMaps: maps, Total: total, Page: page.Number, Size: page.Size, BookID: bookID}, nil
}

// TableOfContents returns a book's complete table of contents
func (s *LibraryService) TableOfContents(ctx context.Context, bookID int) (*models.TocResponse, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	entries, err := s.toc.ListAll(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &models.TocResponse{TableOfContents: entries, Total: len(entries), BookID: bookID}, nil
}

// TableOfContentsPage returns one page of a book's table of contents
func (s *LibraryService) TableOfContentsPage(ctx context.Context, bookID int, page Page) (*models.TocListResponse, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	entries, err := s.toc.ListByBook(ctx, bookID, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	total, err := s.toc.CountByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &models.TocListResponse{TableOfContents: entries, Total: total, Page: page.Number, Size: page.Size, BookID: bookID}, nil
}
