// Package service holds the product query and submission use cases. It composes
// the store with the pricing resolver and rating aggregator and is shared by the
// HTTP and gRPC transports.
package service

import (
	"time"

	"github.com/rs/zerolog"

	"product-showcase-service/internal/monitoring"
	"product-showcase-service/internal/store"
)

const (
	// MaxRelatedProducts caps GetRelatedProducts.
	MaxRelatedProducts = 6

	MessageReviewSubmitted = "review submitted successfully and is awaiting moderation"
	MessageQuoteSubmitted  = "quote request submitted successfully"
	MessageAlreadyReviewed = "already reviewed"

	defaultPhoneRegion = "BR"
)

// Service implements the product showcase use cases.
type Service struct {
	products    store.ProductReader
	reviews     store.ReviewStorer
	quotes      store.QuoteStorer
	validate    *Validator
	now         func() time.Time
	log         zerolog.Logger
	metrics     *monitoring.Metrics
	phoneRegion string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for new reviews and quotes.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPhoneRegion sets the region used to parse quote phone numbers that lack a country code.
func WithPhoneRegion(region string) Option {
	return func(s *Service) {
		if region != "" {
			s.phoneRegion = region
		}
	}
}

// New creates a Service. products may be a cache in front of the same store that backs reviews and quotes.
func New(products store.ProductReader, reviews store.ReviewStorer, quotes store.QuoteStorer, opts ...Option) *Service {
	s := &Service{
		products:    products,
		reviews:     reviews,
		quotes:      quotes,
		validate:    NewValidator(),
		now:         time.Now,
		log:         zerolog.Nop(),
		phoneRegion: defaultPhoneRegion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
