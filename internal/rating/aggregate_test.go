package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"product-showcase-service/internal/domain"
)

func approved(ratings ...int) []domain.Review {
	out := make([]domain.Review, 0, len(ratings))
	for i, r := range ratings {
		out = append(out, domain.Review{ID: int64(i + 1), Rating: r, Status: domain.ReviewStatusApproved})
	}
	return out
}

func TestAggregate_PinnedValues(t *testing.T) {
	tests := []struct {
		name    string
		reviews []domain.Review
		want    Summary
	}{
		{"empty", nil, Summary{Average: 0, Count: 0}},
		{"two fives", approved(5, 5), Summary{Average: 5.0, Count: 2}},
		{"five four three", approved(5, 4, 3), Summary{Average: 4.0, Count: 3}},
		{"one two", approved(1, 2), Summary{Average: 1.5, Count: 2}},
		{"tie rounds away from zero", approved(2, 2, 2, 3), Summary{Average: 2.3, Count: 4}},
		{"repeating decimal", approved(5, 4, 4), Summary{Average: 4.3, Count: 3}},
		{"two thirds", approved(1, 1, 2), Summary{Average: 1.3, Count: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.reviews))
		})
	}
}

func TestAggregate_IgnoresUnapprovedReviews(t *testing.T) {
	reviews := append(approved(4),
		domain.Review{ID: 10, Rating: 1, Status: domain.ReviewStatusPending},
		domain.Review{ID: 11, Rating: 1, Status: domain.ReviewStatusRejected},
	)
	assert.Equal(t, Summary{Average: 4.0, Count: 1}, Aggregate(reviews))

	onlyPending := []domain.Review{{ID: 1, Rating: 5, Status: domain.ReviewStatusPending}}
	assert.Equal(t, Summary{}, Aggregate(onlyPending))
}

func TestProperty_Aggregate_PermutationInvariant(t *testing.T) {
	statuses := []domain.ReviewStatus{domain.ReviewStatusApproved, domain.ReviewStatusPending, domain.ReviewStatusRejected}

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(rt, "n")
		reviews := make([]domain.Review, n)
		for i := range reviews {
			reviews[i] = domain.Review{
				ID:     int64(i + 1),
				Rating: rapid.IntRange(1, 5).Draw(rt, "rating"),
				Status: rapid.SampledFrom(statuses).Draw(rt, "status"),
			}
		}
		want := Aggregate(reviews)

		perm := rapid.Permutation(reviews).Draw(rt, "perm")
		got := Aggregate(perm)

		if got != want {
			rt.Fatalf("aggregate changed under permutation: %+v vs %+v", want, got)
		}
		if want.Count > 0 && (want.Average < 1 || want.Average > 5) {
			rt.Fatalf("average %v out of rating range", want.Average)
		}
	})
}
