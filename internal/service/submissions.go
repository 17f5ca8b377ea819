package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"product-showcase-service/internal/domain"
	"product-showcase-service/internal/monitoring"
	"product-showcase-service/internal/store"
)

// SubmissionResult acknowledges an accepted review or quote.
type SubmissionResult struct {
	Message string `json:"message"`
}

// SubmitReview records a PENDING review by userID. A user may review a product once.
func (s *Service) SubmitReview(ctx context.Context, productID, userID int64, userName string, in ReviewInput) (*SubmissionResult, error) {
	res, err := s.submitReview(ctx, productID, userID, userName, in)
	s.metrics.RecordReview(outcomeOf(err))
	return res, err
}

func (s *Service) submitReview(ctx context.Context, productID, userID int64, userName string, in ReviewInput) (*SubmissionResult, error) {
	if err := validateID(productID); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, productNotFound(productID)
		}
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}

	created, err := s.reviews.CreateReview(ctx, domain.Review{
		ProductID:   productID,
		UserID:      userID,
		UserName:    userName,
		Rating:      *in.Rating,
		Comment:     in.Comment,
		Status:      domain.ReviewStatusPending,
		DateCreated: s.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrReviewExists):
			return nil, &ConflictError{Message: MessageAlreadyReviewed}
		case errors.Is(err, store.ErrProductNotFound):
			return nil, productNotFound(productID)
		}
		return nil, fmt.Errorf("create review for product %d: %w", productID, err)
	}

	s.log.Info().
		Int64("product_id", productID).
		Int64("user_id", userID).
		Int64("review_id", created.ID).
		Msg("Review submitted for moderation")
	return &SubmissionResult{Message: MessageReviewSubmitted}, nil
}

// SubmitQuote records a quote request, snapshotting the product name.
func (s *Service) SubmitQuote(ctx context.Context, productID int64, in QuoteInput) (*SubmissionResult, error) {
	res, err := s.submitQuote(ctx, productID, in)
	s.metrics.RecordQuote(outcomeOf(err))
	return res, err
}

func (s *Service) submitQuote(ctx context.Context, productID int64, in QuoteInput) (*SubmissionResult, error) {
	if err := validateID(productID); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, productNotFound(productID)
		}
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}

	created, err := s.quotes.CreateQuote(ctx, domain.Quote{
		ProductID:   productID,
		ProductName: product.Name,
		UserName:    in.UserName,
		UserEmail:   in.UserEmail,
		UserPhone:   normalizePhone(in.UserPhone, s.phoneRegion),
		Message:     in.Message,
		DateCreated: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, productNotFound(productID)
		}
		return nil, fmt.Errorf("create quote for product %d: %w", productID, err)
	}

	s.log.Info().
		Int64("product_id", productID).
		Int64("quote_id", created.ID).
		Msg("Quote request received")
	return &SubmissionResult{Message: MessageQuoteSubmitted}, nil
}

// normalizePhone formats a phone number to E.164. Numbers that do not parse as
// valid for region are kept trimmed; blank input yields nil.
func normalizePhone(raw *string, region string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return &trimmed
	}
	e164 := phonenumbers.Format(number, phonenumbers.E164)
	return &e164
}

func outcomeOf(err error) string {
	var (
		verr *ValidationError
		nerr *NotFoundError
		cerr *ConflictError
	)
	switch {
	case err == nil:
		return monitoring.OutcomeAccepted
	case errors.As(err, &verr):
		return monitoring.OutcomeInvalid
	case errors.As(err, &nerr):
		return monitoring.OutcomeNotFound
	case errors.As(err, &cerr):
		return monitoring.OutcomeConflict
	default:
		return monitoring.OutcomeError
	}
}
