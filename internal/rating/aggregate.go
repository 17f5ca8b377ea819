// Package rating reduces reviews into a rating summary.
package rating

import (
	"github.com/shopspring/decimal"

	"product-showcase-service/internal/domain"
)

// Summary is the public rating block of a product.
type Summary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Aggregate averages the ratings of approved reviews, ignoring every other status.
//
// The mean is rounded to one decimal place, half away from zero (2.25 -> 2.3),
// using integer arithmetic so no intermediate rounding occurs. The result does not
// depend on input order.
func Aggregate(reviews []domain.Review) Summary {
	var (
		sum   int64
		count int64
	)
	for _, r := range reviews {
		if !r.Approved() {
			continue
		}
		sum += int64(r.Rating)
		count++
	}
	if count == 0 {
		return Summary{}
	}

	tenths := roundHalfAwayFromZero(sum*10, count)
	return Summary{
		Average: decimal.New(tenths, -1).InexactFloat64(),
		Count:   int(count),
	}
}

// roundHalfAwayFromZero returns num/den rounded to the nearest integer; den must be positive.
func roundHalfAwayFromZero(num, den int64) int64 {
	q, r := num/den, num%den
	if r < 0 {
		r = -r
	}
	if 2*r >= den {
		if num < 0 {
			return q - 1
		}
		return q + 1
	}
	return q
}
