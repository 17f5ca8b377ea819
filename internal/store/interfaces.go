package store

import (
	"context"
	"errors"

	"product-showcase-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrProductNotFound  = errors.New("store: product not found")
	ErrProductSKUExists = errors.New("store: product SKU already exists")
	ErrReviewExists     = errors.New("store: review already exists for this user and product")
)

// ProductReader answers point lookups and category scans over products.
type ProductReader interface {
	// GetProduct returns ErrProductNotFound when no product has the given id.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	// ListProductsByCategory returns products in store order (ascending id).
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

// ProductWriter is used only for seeding; products have no update path.
type ProductWriter interface {
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// ReviewStorer defines the storage operations for reviews.
type ReviewStorer interface {
	// ListReviewsByProduct returns every review of a product regardless of status, in insertion order.
	ListReviewsByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	HasUserReviewed(ctx context.Context, productID, userID int64) (bool, error)
	// CreateReview checks for an existing (ProductID, UserID) review and inserts atomically.
	// It returns ErrReviewExists if the pair is already taken. The ID field is ignored.
	CreateReview(ctx context.Context, review domain.Review) (*domain.Review, error)
}

// QuoteStorer defines the storage operations for quote requests.
type QuoteStorer interface {
	CreateQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, error)
}

// Store is the full entity store contract.
type Store interface {
	ProductReader
	ProductWriter
	ReviewStorer
	QuoteStorer
}
