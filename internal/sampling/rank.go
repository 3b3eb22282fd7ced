package sampling

import (
	"cmp"
	"slices"

	"steam_reviews/internal/domain"
)

// RankByWeight returns a copy sorted by descending Weight. The sort is stable,
// so reviews of equal weight keep their relative order and ranking an already
// ranked slice is a no-op.
func RankByWeight(reviews []domain.Review) []domain.Review {
	out := slices.Clone(reviews)
	slices.SortStableFunc(out, func(a, b domain.Review) int {
		return cmp.Compare(b.Weight(), a.Weight())
	})
	return out
}
