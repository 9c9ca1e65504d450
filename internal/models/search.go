package models

// SearchMethod names the retrieval path that produced a hybrid search answer.
type SearchMethod string

const (
	SearchMethodSemantic SearchMethod = "semantic"
	SearchMethodText     SearchMethod = "text"
)

// SearchResult is a glossary hit from either the vector or the text path.
// Similarity is only set by vector search.
type SearchResult struct {
	Term        string   `json:"term" db:"term"`
	Description string   `json:"description" db:"description"`
	BookName    string   `json:"book_name" db:"book_name"`
	BookID      int      `json:"book_id" db:"book_id"`
	Similarity  *float64 `json:"similarity,omitempty" db:"similarity"`
}

// HybridSearchResult is what the hybrid glossary search returns to its caller.
type HybridSearchResult struct {
	Results []SearchResult
	Method  SearchMethod
	Query   string // sanitized query
	Message string // set when Results is empty
}

// HybridSearchResponse is the response for GET /glossary/hybrid-search
type HybridSearchResponse struct {
	Results      []SearchResult `json:"results"`
	Total        int            `json:"total"`
	Query        string         `json:"query"`
	SearchMethod SearchMethod   `json:"search_method"`
	Message      *string        `json:"message,omitempty"`
}

// SemanticSearchResponse is the response for the single-book semantic search
type SemanticSearchResponse struct {
	Results   []SearchResult `json:"results"`
	Total     int            `json:"total"`
	Query     string         `json:"query"`
	BookID    int            `json:"book_id"`
	Threshold float64        `json:"threshold"`
	Message   *string        `json:"message,omitempty"`
}
