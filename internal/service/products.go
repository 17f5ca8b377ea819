package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"product-showcase-service/internal/domain"
	"product-showcase-service/internal/pricing"
	"product-showcase-service/internal/rating"
	"product-showcase-service/internal/store"
)

// ProductDetailView is a product as a given caller may see it.
// Price is nil whenever the visibility policy withholds it.
type ProductDetailView struct {
	ID              int64                  `json:"id"`
	Name            string                 `json:"name"`
	SKU             string                 `json:"sku"`
	Description     string                 `json:"description"`
	Price           *decimal.Decimal       `json:"price"`
	PriceMessage    *string                `json:"priceMessage,omitempty"`
	PriceVisibility domain.PriceVisibility `json:"priceVisibility"`
	Category        string                 `json:"category"`
	Media           []domain.Media         `json:"media"`
	Specs           domain.Specs           `json:"specs"`
	Variations      []domain.Variation     `json:"variations,omitempty"`
	CTA             []domain.CTA           `json:"cta"`
	Downloads       []domain.Download      `json:"downloads,omitempty"`
	Active          bool                   `json:"active"`
	DateCreated     time.Time              `json:"dateCreated"`
	DateModified    time.Time              `json:"dateModified"`
	Rating          rating.Summary         `json:"rating"`
}

// RelatedProduct is the card projection of a product in the same category.
type RelatedProduct struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// PublicReview is a review without the reviewer id or moderation status.
type PublicReview struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	UserName    string    `json:"userName"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	DateCreated time.Time `json:"dateCreated"`
}

// ReviewList is the public review listing of a product.
type ReviewList struct {
	Reviews []PublicReview `json:"reviews"`
	Total   int            `json:"total"`
	Average float64        `json:"average"`
}

// GetProductDetail returns the product with its price resolved for caller and its rating summary.
func (s *Service) GetProductDetail(ctx context.Context, id int64, caller domain.CallerIdentity) (*ProductDetailView, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var (
		product *domain.Product
		reviews []domain.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.products.GetProduct(gctx, id)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				return productNotFound(id)
			}
			return fmt.Errorf("get product %d: %w", id, err)
		}
		product = p
		return nil
	})
	g.Go(func() error {
		rs, err := s.reviews.ListReviewsByProduct(gctx, id)
		if err != nil {
			return fmt.Errorf("list reviews of product %d: %w", id, err)
		}
		reviews = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := pricing.Resolve(product.PriceVisibility, product.Price, caller)
	return &ProductDetailView{
		ID:              product.ID,
		Name:            product.Name,
		SKU:             product.SKU,
		Description:     product.Description,
		Price:           res.DisplayPrice,
		PriceMessage:    res.Message,
		PriceVisibility: product.PriceVisibility,
		Category:        product.Category,
		Media:           product.Media,
		Specs:           product.Specs,
		Variations:      visibleVariations(product.Variations, res.DisplayPrice != nil),
		CTA:             product.CTA,
		Downloads:       product.Downloads,
		Active:          product.Active,
		DateCreated:     product.DateCreated,
		DateModified:    product.DateModified,
		Rating:          rating.Aggregate(reviews),
	}, nil
}

// visibleVariations drops option prices when the product price itself is withheld.
func visibleVariations(vs []domain.Variation, priceVisible bool) []domain.Variation {
	if priceVisible || vs == nil {
		return vs
	}
	out := make([]domain.Variation, len(vs))
	for i, v := range vs {
		opts := make([]domain.VariationOption, len(v.Options))
		for j, o := range v.Options {
			o.Price = nil
			opts[j] = o
		}
		out[i] = domain.Variation{Name: v.Name, Options: opts}
	}
	return out
}

// GetRelatedProducts lists up to MaxRelatedProducts other products of the same
// category, in store order. An unknown product has no related products.
func (s *Service) GetRelatedProducts(ctx context.Context, id int64) ([]RelatedProduct, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	related := make([]RelatedProduct, 0)
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return related, nil
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	siblings, err := s.products.ListProductsByCategory(ctx, product.Category)
	if err != nil {
		return nil, fmt.Errorf("list category %q: %w", product.Category, err)
	}
	for _, p := range siblings {
		if len(related) == MaxRelatedProducts {
			break
		}
		if p.ID == id {
			continue
		}
		related = append(related, RelatedProduct{ID: p.ID, Name: p.Name, ImageURL: p.PrimaryImageURL()})
	}
	return related, nil
}

// ListApprovedReviews lists approved reviews newest first. Reviews created at the
// same instant keep store order.
func (s *Service) ListApprovedReviews(ctx context.Context, id int64) (*ReviewList, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	all, err := s.reviews.ListReviewsByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reviews of product %d: %w", id, err)
	}

	approved := make([]domain.Review, 0, len(all))
	for _, r := range all {
		if r.Approved() {
			approved = append(approved, r)
		}
	}
	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].DateCreated.After(approved[j].DateCreated)
	})

	out := &ReviewList{
		Reviews: make([]PublicReview, 0, len(approved)),
	}
	for _, r := range approved {
		out.Reviews = append(out.Reviews, PublicReview{
			ID:          r.ID,
			ProductID:   r.ProductID,
			UserName:    r.UserName,
			Rating:      r.Rating,
			Comment:     r.Comment,
			DateCreated: r.DateCreated,
		})
	}
	summary := rating.Aggregate(approved)
	out.Total = summary.Count
	out.Average = summary.Average
	return out, nil
}
