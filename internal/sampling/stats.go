package sampling

import (
	"slices"

	"steam_reviews/internal/domain"
)

// Median returns the middle value, or the mean of the two middle values for
// an even count. Zero for an empty input.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}

func MedianInt(xs []int) float64 {
	fs := make([]float64, len(xs))
	for i, x := range xs {
		fs[i] = float64(x)
	}
	return Median(fs)
}

// StratumCounts counts reviews per stratum using the same first-match rule as
// Stratify. Reviews outside every stratum are not counted.
func StratumCounts(reviews []domain.Review, strata []domain.Stratum) []domain.StratumCount {
	out := make([]domain.StratumCount, len(strata))
	for i, s := range strata {
		out[i] = domain.StratumCount{Name: s.Name, MinHours: s.MinHours}
		if !s.Unbounded() {
			maxH := s.MaxHours
			out[i].MaxHours = &maxH
		}
	}
	for _, r := range reviews {
		if i := stratumIndex(strata, r.HoursPlayed); i >= 0 {
			out[i].Count++
		}
	}
	return out
}

// MostHelpful returns the review with the most helpful votes; the first one
// wins a tie. ok is false for an empty input.
func MostHelpful(reviews []domain.Review) (best domain.Review, ok bool) {
	for i, r := range reviews {
		if i == 0 || r.HelpfulVotes > best.HelpfulVotes {
			best = r
		}
	}
	return best, len(reviews) > 0
}
