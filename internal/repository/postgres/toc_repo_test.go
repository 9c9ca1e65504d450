package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tocColumns = []string{"toc_id", "book_id", "parent_toc_id", "toc_level", "toc_label", "page_label", "page_number"}

func TestTocRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTocRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY toc_id")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(tocColumns).
			AddRow(1, 3, nil, 1, "Chapter 1", "1", 15).
			AddRow(2, 3, 1, 2, "Section 1.1", "3", 17))
	mock.ExpectQuery(regexp.QuoteMeta("OFFSET $2 LIMIT $3")).
		WithArgs(3, 1, 1).
		WillReturnRows(sqlmock.NewRows(tocColumns).AddRow(2, 3, 1, 2, "Section 1.1", "3", 17))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(toc_id)")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	all, err := repo.ListAll(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Nil(t, all[0].ParentTOCID)
	assert.Equal(t, 1, *all[1].ParentTOCID)

	page, err := repo.ListByBook(context.Background(), 3, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Section 1.1", *page[0].TOCLabel)

	total, err := repo.CountByBook(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
