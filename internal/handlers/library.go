package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pure-bhakti-vault-api/internal/models"
	"github.com/pure-bhakti-vault-api/internal/services"
	"go.uber.org/zap"
)

// Library is the read API over books and their contents
type Library interface {
	ListBooks(ctx context.Context, page services.Page) (*models.BookListResponse, error)
	GetBook(ctx context.Context, bookID int) (*models.Book, error)
	GetPageContent(ctx context.Context, bookID, pageNumber int) (*models.ContentResponse, error)
	ListContent(ctx context.Context, bookID int, page services.Page) (*models.ContentListResponse, error)
	ListGlossary(ctx context.Context, bookID int, page services.Page) (*models.GlossaryListResponse, error)
	GetGlossaryTerm(ctx context.Context, bookID int, term string) (*models.GlossaryTermResponse, error)
	SearchGlossaryTerms(ctx context.Context, term string, page services.Page) (*models.GlossarySearchResponse, error)
	CorePages(ctx context.Context, bookID int) (*models.CorePagesResponse, error)
	PageMap(ctx context.Context, bookID int, page services.Page) (*models.FullPageMapResponse, error)
	TableOfContents(ctx context.Context, bookID int) (*models.TocResponse, error)
	TableOfContentsPage(ctx context.Context, bookID int, page services.Page) (*models.TocListResponse, error)
}

// LibraryHandler handles book, content, glossary, page map and TOC endpoints
type LibraryHandler struct {
	library Library
	logger  *zap.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library Library, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{library: library, logger: logger}
}

// ListBooks handles GET /books
func (h *LibraryHandler) ListBooks(c echo.Context) error {
	page, err := pageParams(c, defaultPageSize, maxPageSize)
	if err != nil {
		return err
	}
	resp, err := h.library.ListBooks(c.Request().Context(), page)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetBook handles GET /books/:book_id
func (h *LibraryHandler) GetBook(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	book, err := h.library.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, book)
}

// GetPageContent handles GET /books/:book_id/content/:page_number
func (h *LibraryHandler) GetPageContent(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	var pageNumber int
	if err := echo.PathParamsBinder(c).MustInt("page_number", &pageNumber).BindError(); err != nil {
		return validationError("page_number must be an integer")
	}

	resp, err := h.library.GetPageContent(c.Request().Context(), bookID, pageNumber)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListContent handles GET /books/:book_id/content
func (h *LibraryHandler) ListContent(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c, defaultPageSize, maxPageSize)
	if err != nil {
		return err
	}

	resp, err := h.library.ListContent(c.Request().Context(), bookID, page)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListGlossary handles GET /books/:book_id/glossary
func (h *LibraryHandler) ListGlossary(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c, defaultPageSize, maxPageSize)
	if err != nil {
		return err
	}

	resp, err := h.library.ListGlossary(c.Request().Context(), bookID, page)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetGlossaryTerm handles GET /books/:book_id/glossary/:term
func (h *LibraryHandler) GetGlossaryTerm(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.library.GetGlossaryTerm(c.Request().Context(), bookID, c.Param("term"))
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SearchGlossaryTerms handles GET /glossary/search?term=
func (h *LibraryHandler) SearchGlossaryTerms(c echo.Context) error {
	var term string
	if err := echo.QueryParamsBinder(c).MustString("term", &term).BindError(); err != nil {
		return validationError("term is required")
	}
	page, err := pageParams(c, defaultPageSize, maxPageSize)
	if err != nil {
		return err
	}

	resp, err := h.library.SearchGlossaryTerms(c.Request().Context(), term, page)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// CorePages handles GET /books/:book_id/pages/core
func (h *LibraryHandler) CorePages(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.library.CorePages(c.Request().Context(), bookID)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PageMap handles GET /books/:book_id/pages
func (h *LibraryHandler) PageMap(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c, defaultMapPageSize, maxMapPageSize)
	if err != nil {
		return err
	}

	resp, err := h.library.PageMap(c.Request().Context(), bookID, page)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// TableOfContents handles GET /books/:book_id/toc
func (h *LibraryHandler) TableOfContents(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.library.TableOfContents(c.Request().Context(), bookID)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// TableOfContentsPage handles GET /books/:book_id/toc/paginated
func (h *LibraryHandler) TableOfContentsPage(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c, defaultMapPageSize, maxMapPageSize)
	if err != nil {
		return err
	}

	resp, err := h.library.TableOfContentsPage(c.Request().Context(), bookID, page)
	if err != nil {
		return httpError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers library routes
func (h *LibraryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/books", h.ListBooks)
	g.GET("/books/:book_id", h.GetBook)
	g.GET("/books/:book_id/content", h.ListContent)
	g.GET("/books/:book_id/content/:page_number", h.GetPageContent)
	g.GET("/books/:book_id/glossary", h.ListGlossary)
	g.GET("/books/:book_id/glossary/:term", h.GetGlossaryTerm)
	g.GET("/glossary/search", h.SearchGlossaryTerms)
	g.GET("/books/:book_id/pages/core", h.CorePages)
	g.GET("/books/:book_id/pages", h.PageMap)
	g.GET("/books/:book_id/toc", h.TableOfContents)
	g.GET("/books/:book_id/toc/paginated", h.TableOfContentsPage)
}
