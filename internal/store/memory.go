package store

import (
	"context"
	"sync"
	"time"

	"product-showcase-service/internal/domain"
)

// MemoryStore is an in-process Store. Collections are kept as insertion-ordered
// slices; identifiers auto-increment per entity kind starting at 1.
type MemoryStore struct {
	mu       sync.RWMutex
	products []domain.Product
	reviews  []domain.Review
	quotes   []domain.Quote
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.SKU == product.SKU {
			return nil, ErrProductSKUExists
		}
	}
	product.ID = int64(len(s.products) + 1)
	if product.DateCreated.IsZero() {
		product.DateCreated = s.now().UTC()
	}
	if product.DateModified.IsZero() {
		product.DateModified = product.DateCreated
	}
	s.products = append(s.products, product)
	out := product
	return &out, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id <= 0 || id > int64(len(s.products)) {
		return nil, ErrProductNotFound
	}
	p := s.products[id-1]
	return &p, nil
}

func (s *MemoryStore) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.Category == category {
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *MemoryStore) ListReviewsByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := make([]domain.Review, 0)
	for _, r := range s.reviews {
		if r.ProductID == productID {
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

func (s *MemoryStore) HasUserReviewed(ctx context.Context, productID, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasUserReviewedLocked(productID, userID), nil
}

func (s *MemoryStore) hasUserReviewedLocked(productID, userID int64) bool {
	for _, r := range s.reviews {
		if r.ProductID == productID && r.UserID == userID {
			return true
		}
	}
	return false
}

// CreateReview holds the write lock across the duplicate check and the append.
func (s *MemoryStore) CreateReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasUserReviewedLocked(review.ProductID, review.UserID) {
		return nil, ErrReviewExists
	}
	review.ID = int64(len(s.reviews) + 1)
	s.reviews = append(s.reviews, review)
	out := review
	return &out, nil
}

func (s *MemoryStore) CreateQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	quote.ID = int64(len(s.quotes) + 1)
	s.quotes = append(s.quotes, quote)
	out := quote
	return &out, nil
}

// Quotes returns a copy of every stored quote, in insertion order.
func (s *MemoryStore) Quotes() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Quote(nil), s.quotes...)
}

// ReviewCount returns the number of stored reviews across all products.
func (s *MemoryStore) ReviewCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}

// Close is a no-op kept so MemoryStore and PostgresStore share shutdown handling.
func (s *MemoryStore) Close() error {
	return nil
}
