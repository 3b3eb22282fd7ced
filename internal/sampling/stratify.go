package sampling

import (
	"math"

	"steam_reviews/internal/domain"
)

// Stratify draws a capped sample of at most target reviews across strata.
//
// Each review goes to the first stratum (in declared order) whose range
// contains its playtime; overlapping ranges therefore resolve first-match-wins.
// Reviews outside every stratum are dropped. Each stratum then contributes
// its first max(1, floor(target*share)) reviews, keeping input order. Short
// buckets are not backfilled from other strata, so the result may be smaller
// than target.
func Stratify(reviews []domain.Review, strata []domain.Stratum, target int) []domain.Review {
	if target <= 0 || len(reviews) == 0 {
		return []domain.Review{}
	}

	buckets := make([][]domain.Review, len(strata))
	for _, r := range reviews {
		if i := stratumIndex(strata, r.HoursPlayed); i >= 0 {
			buckets[i] = append(buckets[i], r)
		}
	}

	out := make([]domain.Review, 0, target)
	for i, s := range strata {
		quota := Quota(target, s.Share)
		b := buckets[i]
		if len(b) > quota {
			b = b[:quota]
		}
		if room := target - len(out); len(b) > room {
			b = b[:room]
		}
		out = append(out, b...)
		if len(out) == target {
			break
		}
	}
	return out
}

// Quota is the number of reviews a stratum may contribute: max(1, floor(target*share)).
func Quota(target int, share float64) int {
	return max(1, int(math.Floor(float64(target)*share)))
}

// stratumIndex returns the first stratum containing hours, or -1.
func stratumIndex(strata []domain.Stratum, hours float64) int {
	for i, s := range strata {
		if s.Contains(hours) {
			return i
		}
	}
	return -1
}
