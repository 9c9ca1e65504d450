package models

import "time"

// Book is a digitized book in the library
type Book struct {
	BookID            int        `json:"book_id" db:"book_id"`
	PDFName           string     `json:"pdf_name" db:"pdf_name"`
	OriginalBookTitle string     `json:"original_book_title" db:"original_book_title"`
	EnglishBookTitle  *string    `json:"english_book_title" db:"english_book_title"`
	Edition           *string    `json:"edition" db:"edition"`
	NumberOfPages     int        `json:"number_of_pages" db:"number_of_pages"`
	FileSizeBytes     *int64     `json:"file_size_bytes" db:"file_size_bytes"`
	OriginalAuthor    *string    `json:"original_author" db:"original_author"`
	CommentaryAuthor  *string    `json:"commentary_author" db:"commentary_author"`
	HeaderHeight      *float64   `json:"header_height" db:"header_height"`
	FooterHeight      *float64   `json:"footer_height" db:"footer_height"`
	CreatedAt         *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at" db:"updated_at"`
	PageLabelLocation *string    `json:"page_label_location" db:"page_label_location"`
	TOCPages          *string    `json:"toc_pages" db:"toc_pages"`
	VersePages        *string    `json:"verse_pages" db:"verse_pages"`
	GlossaryPages     *string    `json:"glossary_pages" db:"glossary_pages"`
	BookSummary       *string    `json:"book_summary" db:"book_summary"`
}

// Content is the text of one page of a book
type Content struct {
	ContentID   int        `json:"content_id" db:"content_id"`
	BookID      int        `json:"book_id" db:"book_id"`
	PageNumber  int        `json:"page_number" db:"page_number"`
	PageContent *string    `json:"page_content" db:"page_content"`
	CreatedAt   *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

// GlossaryTerm is a glossary entry joined with its book's display name
type GlossaryTerm struct {
	GlossaryID  int        `json:"glossary_id" db:"glossary_id"`
	BookID      int        `json:"book_id" db:"book_id"`
	Term        string     `json:"term" db:"term"`
	Description string     `json:"description" db:"description"`
	CreatedAt   *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
	BookName    string     `json:"book_name" db:"book_name"`
}

// TermEmbedding is the precomputed vector of a glossary term
type TermEmbedding struct {
	GlossaryID int       `db:"glossary_id"`
	BookID     int       `db:"book_id"`
	Term       string    `db:"term"`
	Embedding  []float32 `db:"-"`
}

// Page types stored in page_map.page_type
const (
	PageTypeCore    = "Core"
	PageTypePrimary = "Primary"
)

// PageMap maps a physical page number to its printed label and type
type PageMap struct {
	PageMapID  int        `json:"page_map_id" db:"page_map_id"`
	BookID     int        `json:"book_id" db:"book_id"`
	PageNumber int        `json:"page_number" db:"page_number"`
	PageLabel  *string    `json:"page_label" db:"page_label"`
	PageType   string     `json:"page_type" db:"page_type"`
	PageHeader *string    `json:"page_header" db:"page_header"`
	CreatedAt  *time.Time `json:"created_at" db:"created_at"`
}

// CorePageInfo is the page number and label of a core page
type CorePageInfo struct {
	PageNumber int     `json:"page_number"`
	PageLabel  *string `json:"page_label"`
}

// TableOfContents is one entry of a book's table of contents
type TableOfContents struct {
	TOCID       int     `json:"toc_id" db:"toc_id"`
	BookID      int     `json:"book_id" db:"book_id"`
	ParentTOCID *int    `json:"parent_toc_id" db:"parent_toc_id"`
	TOCLevel    *int    `json:"toc_level" db:"toc_level"`
	TOCLabel    *string `json:"toc_label" db:"toc_label"`
	PageLabel   *string `json:"page_label" db:"page_label"`
	PageNumber  *int    `json:"page_number" db:"page_number"`
}

// BookListResponse is the response for GET /books
type BookListResponse struct {
	Books []Book `json:"books"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

// ContentResponse is the response for a single page of content
type ContentResponse struct {
	Content *Content `json:"content"`
	Message *string  `json:"message,omitempty"`
}

// ContentListResponse is the response for paginated book content
type ContentListResponse struct {
	Content []Content `json:"content"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Size    int       `json:"size"`
	BookID  int       `json:"book_id"`
}

// GlossaryListResponse is the response for a book's glossary
type GlossaryListResponse struct {
	GlossaryTerms []GlossaryTerm `json:"glossary_terms"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	BookID        int            `json:"book_id"`
}

// GlossaryTermResponse is the response for a single glossary term lookup
type GlossaryTermResponse struct {
	Term    *GlossaryTerm `json:"term"`
	Message *string       `json:"message,omitempty"`
}

// GlossarySearchResponse is the response for the cross-book term search
type GlossarySearchResponse struct {
	GlossaryTerms []GlossaryTerm `json:"glossary_terms"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	SearchTerm    string         `json:"search_term"`
}

// CorePagesResponse is the response for a book's core pages
type CorePagesResponse struct {
	Pages  []CorePageInfo `json:"pages"`
	Total  int            `json:"total"`
	BookID int            `json:"book_id"`
}

// FullPageMapResponse is the response for a book's paginated page map
type FullPageMapResponse struct {
	PageMaps []PageMap `json:"page_maps"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
	BookID   int       `json:"book_id"`
}

// TocResponse is the response for a book's full table of contents
type TocResponse struct {
	TableOfContents []TableOfContents `json:"table_of_contents"`
	Total           int               `json:"total"`
	BookID          int               `json:"book_id"`
}

// TocListResponse is the response for a book's paginated table of contents
type TocListResponse struct {
	TableOfContents []TableOfContents `json:"table_of_contents"`
	Total           int               `json:"total"`
	Page            int               `json:"page"`
	Size            int               `json:"size"`
	BookID          int               `json:"book_id"`
}
