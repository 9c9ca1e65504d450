package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pure-bhakti-vault-api/internal/services"
)

// Page size bounds for list endpoints
const (
	defaultPageSize    = 10
	maxPageSize        = 100
	defaultMapPageSize = 50
	maxMapPageSize     = 200
)

func validationError(msg string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, msg)
}

// bookIDParam reads the :book_id path parameter
func bookIDParam(c echo.Context) (int, error) {
	var bookID int
	if err := echo.PathParamsBinder(c).MustInt("book_id", &bookID).BindError(); err != nil {
		return 0, validationError("book_id must be an integer")
	}
	return bookID, nil
}

// pageParams reads page (>= 1, default 1) and size (1..maxSize, default defaultSize)
func pageParams(c echo.Context, defaultSize, maxSize int) (services.Page, error) {
	page := services.Page{Number: 1, Size: defaultSize}
	if err := echo.QueryParamsBinder(c).
		Int("page", &page.Number).
		Int("size", &page.Size).
		BindError(); err != nil {
		return page, validationError("page and size must be integers")
	}
	if page.Number < 1 {
		return page, validationError("page must be at least 1")
	}
	if page.Size < 1 || page.Size > maxSize {
		return page, validationError(fmt.Sprintf("size must be between 1 and %d", maxSize))
	}
	return page, nil
}

// limitParam reads limit (1..maxPageSize, default defaultPageSize)
func limitParam(c echo.Context) (int, error) {
	limit := defaultPageSize
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return 0, validationError("limit must be an integer")
	}
	if limit < 1 || limit > maxPageSize {
		return 0, validationError(fmt.Sprintf("limit must be between 1 and %d", maxPageSize))
	}
	return limit, nil
}
