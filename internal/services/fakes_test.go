package services

import (
	"context"

	"github.com/pure-bhakti-vault-api/internal/models"
)

type fakeEmbedder struct {
	vec   []float64
	err   error
	panic bool
	calls int
}

func (f *fakeEmbedder) EmbedQuery(context.Context, string) ([]float64, error) {
	f.calls++
	if f.panic {
		panic("embedder exploded")
	}
	return f.vec, f.err
}

type vectorCall struct {
	limit     int
	bookID    *int
	threshold float64
}

type fakeVectorRepo struct {
	rows  []models.SearchResult
	err   error
	calls []vectorCall
}

func (f *fakeVectorRepo) SearchByVector(_ context.Context, _ []float64, limit int, bookID *int, threshold float64) ([]models.SearchResult, error) {
	f.calls = append(f.calls, vectorCall{limit: limit, bookID: bookID, threshold: threshold})
	return f.rows, f.err
}

type fakeBookRepo struct {
	books map[int]models.Book
	err   error
}

func (f *fakeBookRepo) List(context.Context, int, int) ([]models.Book, error) {
	out := []models.Book{}
	for _, b := range f.books {
		out = append(out, b)
	}
	return out, f.err
}

func (f *fakeBookRepo) GetByID(_ context.Context, bookID int) (*models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.books[bookID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBookRepo) Count(context.Context) (int, error) {
	return len(f.books), f.err
}

type fakeGlossaryRepo struct {
	textRows   []models.SearchResult
	textErr    error
	textCalls  int
	terms      []models.GlossaryTerm
	byTerm     *models.GlossaryTerm
	lastSkip   int
	lastLimit  int
	lastSearch string
}

func (f *fakeGlossaryRepo) ListByBook(_ context.Context, _ int, skip, limit int) ([]models.GlossaryTerm, error) {
	f.lastSkip, f.lastLimit = skip, limit
	return f.terms, nil
}

func (f *fakeGlossaryRepo) GetByTerm(context.Context, int, string) (*models.GlossaryTerm, error) {
	return f.byTerm, nil
}

func (f *fakeGlossaryRepo) CountByBook(context.Context, int) (int, error) {
	return len(f.terms), nil
}

func (f *fakeGlossaryRepo) SearchAcrossBooks(_ context.Context, term string, skip, limit int) ([]models.GlossaryTerm, error) {
	f.lastSearch, f.lastSkip, f.lastLimit = term, skip, limit
	return f.terms, nil
}

func (f *fakeGlossaryRepo) SearchByText(_ context.Context, text string, limit int, _ *int) ([]models.SearchResult, error) {
	f.textCalls++
	f.lastSearch, f.lastLimit = text, limit
	return f.textRows, f.textErr
}

type fakeContentRepo struct {
	page *models.Content
}

func (f *fakeContentRepo) GetPage(context.Context, int, int) (*models.Content, error) {
	return f.page, nil
}

func (f *fakeContentRepo) ListByBook(context.Context, int, int, int) ([]models.Content, error) {
	if f.page == nil {
		return []models.Content{}, nil
	}
	return []models.Content{*f.page}, nil
}

func (f *fakeContentRepo) CountByBook(context.Context, int) (int, error) {
	if f.page == nil {
		return 0, nil
	}
	return 1, nil
}

type fakePageMapRepo struct {
	byType map[string][]models.PageMap
}

func (f *fakePageMapRepo) ListByType(_ context.Context, _ int, pageType string) ([]models.PageMap, error) {
	return f.byType[pageType], nil
}

func (f *fakePageMapRepo) ListByBook(context.Context, int, int, int) ([]models.PageMap, error) {
	var all []models.PageMap
	for _, pages := range f.byType {
		all = append(all, pages...)
	}
	return all, nil
}

func (f *fakePageMapRepo) CountByBook(ctx context.Context, bookID int) (int, error) {
	all, _ := f.ListByBook(ctx, bookID, 0, 0)
	return len(all), nil
}

type fakeTocRepo struct {
	entries []models.TableOfContents
}

func (f *fakeTocRepo) ListAll(context.Context, int) ([]models.TableOfContents, error) {
	return f.entries, nil
}

func (f *fakeTocRepo) ListByBook(_ context.Context, _ int, skip, limit int) ([]models.TableOfContents, error) {
	if skip >= len(f.entries) {
		return []models.TableOfContents{}, nil
	}
	end := skip + limit
	if end > len(f.entries) {
		end = len(f.entries)
	}
	return f.entries[skip:end], nil
}

func (f *fakeTocRepo) CountByBook(context.Context, int) (int, error) {
	return len(f.entries), nil
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
