// Package pricing decides which price, if any, a caller may see for a product.
package pricing

import (
	"github.com/shopspring/decimal"

	"product-showcase-service/internal/domain"
)

// User-facing messages returned alongside a hidden price.
const (
	MessageOnRequest     = "price on request"
	MessageLoginRequired = "login required to view price"
)

// Resolution is the outcome of applying a visibility policy.
// A nil DisplayPrice means the price must not be shown.
type Resolution struct {
	DisplayPrice *decimal.Decimal
	Message      *string
}

// Resolve applies policy to price for the given caller.
//
// An unrecognized policy yields an empty Resolution rather than an error:
// ambiguous visibility never leaks the price and never exposes store state.
func Resolve(policy domain.PriceVisibility, price decimal.Decimal, caller domain.CallerIdentity) Resolution {
	switch policy {
	case domain.PriceVisibilityPublic:
		return Resolution{DisplayPrice: &price}
	case domain.PriceVisibilityOnRequest:
		return Resolution{Message: message(MessageOnRequest)}
	case domain.PriceVisibilityRestricted:
		if caller.Present() {
			return Resolution{DisplayPrice: &price}
		}
		return Resolution{Message: message(MessageLoginRequired)}
	default:
		return Resolution{}
	}
}

func message(s string) *string {
	return &s
}
