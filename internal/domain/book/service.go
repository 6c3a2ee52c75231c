package book

import (
	"context"
	"errors"
	"regexp"
)

// 价格范围(分)
const (
	MinPrice = 1
	MaxPrice = 999999
)

var nonDigit = regexp.MustCompile(`[^0-9]`)

// Service 图书领域服务
type Service interface {
	// PublishBook 发布图书
	// 规则:ISBN为10或13位数字(允许分隔符)、价格在[MinPrice, MaxPrice]、库存>=0、ISBN唯一
	PublishBook(ctx context.Context, p PublishParams) (*Book, error)

	GetBookByID(ctx context.Context, id uint) (*Book, error)

	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// SetActive 上架/下架,只有发布者本人可以操作
	SetActive(ctx context.Context, id, userID uint, active bool) (*Book, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PublishBook(ctx context.Context, p PublishParams) (*Book, error) {
	if !isValidISBN(p.ISBN) {
		return nil, ErrInvalidISBN
	}
	if p.Price < MinPrice || p.Price > MaxPrice {
		return nil, ErrInvalidPrice
	}
	if p.Stock < 0 {
		return nil, ErrInvalidStock
	}

	existing, err := s.repo.FindByISBN(ctx, p.ISBN)
	switch {
	case err == nil && existing != nil:
		return nil, ErrISBNDuplicate
	case err != nil && !errors.Is(err, ErrBookNotFound):
		return nil, err
	}

	b := NewBook(p)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) SetActive(ctx context.Context, id, userID uint, active bool) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}
	if b.Active == active {
		return b, nil
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	b.SetActive(active)
	return b, nil
}

// isValidISBN 只校验位数(10或13位数字),不校验校验位
func isValidISBN(isbn string) bool {
	n := len(nonDigit.ReplaceAllString(isbn, ""))
	return n == 10 || n == 13
}
