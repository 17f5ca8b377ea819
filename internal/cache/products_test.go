package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"product-showcase-service/internal/domain"
	"product-showcase-service/internal/monitoring"
	"product-showcase-service/internal/store"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReader) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if ps := args.Get(0); ps != nil {
		return ps.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestCache(t *testing.T, next store.ProductReader) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewProductCache(next, rdb, time.Minute, zerolog.Nop(), monitoring.New(prometheus.NewRegistry())), mr
}

func TestProductCache_GetProduct_ReadThrough(t *testing.T) {
	ctx := context.Background()
	sofa := &domain.Product{
		ID: 1, Name: "Sofá", SKU: "SOFA-1", Price: decimal.RequireFromString("2500.50"),
		PriceVisibility: domain.PriceVisibilityPublic, Category: "Sala de Estar",
		Media: []domain.Media{{URL: "https://img/1.jpg", Type: domain.MediaTypeImage}},
	}
	next := new(mockReader)
	next.On("GetProduct", mock.Anything, int64(1)).Return(sofa, nil).Once()

	c, mr := newTestCache(t, next)

	first, err := c.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sofá", first.Name)
	assert.True(t, mr.Exists("showcase:product:1"))
	assert.Equal(t, time.Minute, mr.TTL("showcase:product:1"))

	second, err := c.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.True(t, sofa.Price.Equal(second.Price))
	assert.Equal(t, sofa.Media, second.Media)

	next.AssertExpectations(t)
}

func TestProductCache_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	next := new(mockReader)
	next.On("GetProduct", mock.Anything, int64(9)).Return(nil, store.ErrProductNotFound).Twice()

	c, mr := newTestCache(t, next)
	for i := 0; i < 2; i++ {
		_, err := c.GetProduct(ctx, 9)
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	}
	assert.False(t, mr.Exists("showcase:product:9"))
	next.AssertExpectations(t)
}

func TestProductCache_ListProductsByCategory(t *testing.T) {
	ctx := context.Background()
	products := []domain.Product{{ID: 1, Category: "Sala de Estar"}, {ID: 2, Category: "Sala de Estar"}}
	next := new(mockReader)
	next.On("ListProductsByCategory", mock.Anything, "Sala de Estar").Return(products, nil).Once()

	c, _ := newTestCache(t, next)
	for i := 0; i < 3; i++ {
		got, err := c.ListProductsByCategory(ctx, "Sala de Estar")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[1].ID)
	}
	next.AssertExpectations(t)
}

func TestProductCache_RedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	next := new(mockReader)
	next.On("GetProduct", mock.Anything, int64(1)).Return(&domain.Product{ID: 1}, nil).Twice()

	c, mr := newTestCache(t, next)
	mr.Close()

	for i := 0; i < 2; i++ {
		p, err := c.GetProduct(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
	}
	next.AssertExpectations(t)
}

func TestProductCache_CorruptEntryIsIgnored(t *testing.T) {
	ctx := context.Background()
	next := new(mockReader)
	next.On("GetProduct", mock.Anything, int64(4)).Return(&domain.Product{ID: 4, Name: "Mesa"}, nil).Once()

	c, mr := newTestCache(t, next)
	require.NoError(t, mr.Set("showcase:product:4", "{not json"))

	p, err := c.GetProduct(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Mesa", p.Name)
	next.AssertExpectations(t)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	_, err = NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}
