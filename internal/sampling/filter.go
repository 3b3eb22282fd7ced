package sampling

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"steam_reviews/internal/domain"
)

// Filter drops reviews below the playtime floor or with too little text.
// Text length is counted in runes after trimming surrounding whitespace.
func Filter(reviews []domain.Review, minHours float64, minTextLen int) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.HoursPlayed < minHours {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(r.Text)) < minTextLen {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortByHelpfulness returns a copy ordered by descending helpful votes.
// Equal vote counts keep their input order.
func SortByHelpfulness(reviews []domain.Review) []domain.Review {
	out := slices.Clone(reviews)
	slices.SortStableFunc(out, func(a, b domain.Review) int {
		return cmp.Compare(b.HelpfulVotes, a.HelpfulVotes)
	})
	return out
}
