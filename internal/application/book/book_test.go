package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/book"
)

// stubService 内存版book.Service
type stubService struct {
	books      map[uint]*book.Book
	lastParams book.ListParams
	err        error
}

func (s *stubService) PublishBook(_ context.Context, p book.PublishParams) (*book.Book, error) {
	b := book.NewBook(p)
	b.ID = uint(len(s.books) + 1)
	s.books[b.ID] = b
	return b, nil
}

func (s *stubService) GetBookByID(_ context.Context, id uint) (*book.Book, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (s *stubService) ListBooks(_ context.Context, p book.ListParams) ([]*book.Book, int64, error) {
	s.lastParams = p
	var out []*book.Book
	for _, b := range s.books {
		out = append(out, b)
	}
	return out, 45, nil
}

func (s *stubService) SetActive(_ context.Context, id, userID uint, active bool) (*book.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	if !b.IsOwnedBy(userID) {
		return nil, book.ErrNotOwner
	}
	b.SetActive(active)
	return b, nil
}

func newStub() *stubService {
	return &stubService{books: map[uint]*book.Book{
		1: {ID: 1, Title: "Go", Price: 1299, Active: true, PublisherID: 5, Description: "d", CreatedAt: time.Now()},
		2: {ID: 2, Title: "Old", Price: 500, Active: false, PublisherID: 5},
	}}
}

func TestCatalog_Lookup(t *testing.T) {
	c := NewCatalog(newStub())
	ctx := context.Background()

	b, err := c.Lookup(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "1", b.ID)
	assert.Equal(t, int64(1299), *b.ListPriceCents)
	assert.True(t, b.Active)

	b, err = c.Lookup(ctx, "2")
	require.NoError(t, err)
	assert.False(t, b.Active)

	for _, id := range []string{"99", "abc", "0", ""} {
		b, err := c.Lookup(ctx, id)
		assert.NoError(t, err, id)
		assert.Nil(t, b, id)
	}
}

func TestCatalog_LookupPropagatesBackendErrors(t *testing.T) {
	svc := newStub()
	svc.err = errors.New("db down")

	_, err := NewCatalog(svc).Lookup(context.Background(), "1")
	assert.Error(t, err)
}

func TestListBooks_DefaultsAndPaging(t *testing.T) {
	svc := newStub()
	uc := NewListBooksUseCase(svc, "USD")

	resp, err := uc.Execute(context.Background(), ListBooksRequest{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 100, resp.PageSize)
	assert.Equal(t, 1, resp.TotalPages)
	assert.True(t, svc.lastParams.ActiveOnly)

	resp, err = uc.Execute(context.Background(), ListBooksRequest{PageSize: 20, IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalPages)
	assert.False(t, svc.lastParams.ActiveOnly)
	for _, b := range resp.List {
		assert.Empty(t, b.Description)
	}
}

func TestGetBook_FormatsPrice(t *testing.T) {
	dto, err := NewGetBookUseCase(newStub(), "USD").Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "$12.99", dto.PriceDisplay)
	assert.Equal(t, "d", dto.Description)
}

type evictions []string

func (e *evictions) Evict(_ context.Context, id string) error {
	*e = append(*e, id)
	return nil
}

func TestSetActive(t *testing.T) {
	var evicted evictions
	uc := NewSetActiveUseCase(newStub(), "USD", &evicted)

	dto, err := uc.Execute(context.Background(), 1, 5, false)
	require.NoError(t, err)
	assert.False(t, dto.Active)
	assert.Equal(t, evictions{"1"}, evicted)

	_, err = uc.Execute(context.Background(), 1, 6, true)
	assert.ErrorIs(t, err, book.ErrNotOwner)
}

func TestPublishBook(t *testing.T) {
	dto, err := NewPublishBookUseCase(newStub(), "USD").Execute(context.Background(), PublishBookRequest{
		ISBN: "9787115428028", Title: "New", Price: 2500, Stock: 3, PublisherID: 5,
	})
	require.NoError(t, err)
	assert.True(t, dto.Active)
	assert.Equal(t, "$25.00", dto.PriceDisplay)
}
