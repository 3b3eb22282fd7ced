package sampling_test

import (
	"strings"

	"steam_reviews/internal/domain"
)

func rev(id string, hours float64, votes int) domain.Review {
	return domain.Review{ID: id, Text: strings.Repeat("x", 120), HoursPlayed: hours, HelpfulVotes: votes}
}

func ids(rs []domain.Review) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
