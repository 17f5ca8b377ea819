package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"product-showcase-service/internal/domain"
)

func newSeededMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	require.NoError(t, SeedDemo(context.Background(), s, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	return s
}

func TestMemoryStore_SeedDemo(t *testing.T) {
	s := newSeededMemoryStore(t)
	ctx := context.Background()

	sofa, err := s.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "SOFA-RET-001", sofa.SKU)
	assert.Equal(t, domain.PriceVisibilityPublic, sofa.PriceVisibility)
	assert.Len(t, sofa.Media, 2)

	armchair, err := s.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.PriceVisibilityOnRequest, armchair.PriceVisibility)
	assert.Equal(t, sofa.Category, armchair.Category)

	reviews, err := s.ListReviewsByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, int64(101), reviews[0].UserID)
	assert.True(t, reviews[0].Approved())

	// Second run is a no-op.
	require.NoError(t, SeedDemo(ctx, s, time.Now()))
	assert.Equal(t, 1, s.ReviewCount())
	byCategory, err := s.ListProductsByCategory(ctx, "Sala de Estar")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)
}

func TestMemoryStore_GetProduct_NotFound(t *testing.T) {
	s := newSeededMemoryStore(t)
	for _, id := range []int64{0, -1, 3, 1 << 40} {
		_, err := s.GetProduct(context.Background(), id)
		assert.ErrorIs(t, err, ErrProductNotFound, "id %d", id)
	}
}

func TestMemoryStore_CreateProduct_DuplicateSKU(t *testing.T) {
	s := newSeededMemoryStore(t)
	_, err := s.CreateProduct(context.Background(), domain.Product{SKU: "POLT-002"})
	assert.ErrorIs(t, err, ErrProductSKUExists)
}

func TestMemoryStore_ListProductsByCategory_Order(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, sku := range []string{"A", "B", "C"} {
		cat := "even"
		if sku == "B" {
			cat = "odd"
		}
		_, err := s.CreateProduct(ctx, domain.Product{SKU: sku, Category: cat})
		require.NoError(t, err)
	}

	products, err := s.ListProductsByCategory(ctx, "even")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(3), products[1].ID)

	none, err := s.ListProductsByCategory(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryStore_CreateReview_Duplicate(t *testing.T) {
	s := newSeededMemoryStore(t)
	ctx := context.Background()

	created, err := s.CreateReview(ctx, domain.Review{ProductID: 1, UserID: 202, Rating: 3, Status: domain.ReviewStatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	ok, err := s.HasUserReviewed(ctx, 1, 202)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.CreateReview(ctx, domain.Review{ProductID: 1, UserID: 202, Rating: 5})
	assert.ErrorIs(t, err, ErrReviewExists)

	// Same user on another product is fine.
	_, err = s.CreateReview(ctx, domain.Review{ProductID: 2, UserID: 202, Rating: 5})
	assert.NoError(t, err)
}

func TestMemoryStore_CreateReview_ConcurrentDuplicates(t *testing.T) {
	s := NewMemoryStore()
	var (
		g        errgroup.Group
		accepted atomic.Int32
		start    sync.WaitGroup
	)
	start.Add(1)
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			start.Wait()
			_, err := s.CreateReview(context.Background(), domain.Review{ProductID: 1, UserID: 7, Rating: 4})
			if err == nil {
				accepted.Add(1)
				return nil
			}
			if errors.Is(err, ErrReviewExists) {
				return nil
			}
			return err
		})
	}
	start.Done()
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, 1, s.ReviewCount())
}

func TestMemoryStore_CreateQuote(t *testing.T) {
	s := newSeededMemoryStore(t)
	ctx := context.Background()

	q1, err := s.CreateQuote(ctx, domain.Quote{ProductID: 1, ProductName: "Sofá", UserName: "Ana", UserEmail: "ana@example.com"})
	require.NoError(t, err)
	q2, err := s.CreateQuote(ctx, domain.Quote{ProductID: 1, ProductName: "Sofá", UserName: "Ana", UserEmail: "ana@example.com"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), q1.ID)
	assert.Equal(t, int64(2), q2.ID)
	assert.Len(t, s.Quotes(), 2)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := newSeededMemoryStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetProduct(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.CreateReview(ctx, domain.Review{ProductID: 1, UserID: 9})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.ReviewCount())
}
