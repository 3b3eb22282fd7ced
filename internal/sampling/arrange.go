package sampling

import "steam_reviews/internal/domain"

// ArrangeOptions configures anchor selection.
type ArrangeOptions struct {
	// VeteranHours is the playtime at or above which a negative review is a
	// tail-anchor candidate.
	VeteranHours float64
	// TailVeterans caps how many veteran negatives are held back for the tail.
	TailVeterans int
}

// Arrange merges two weight-ranked pools into one presentation order.
//
// Positives and negatives alternate, positive first, so no long same-sentiment
// run appears while both pools last; the longer pool's remainder follows. Up to
// TailVeterans veteran negatives and the single most helpful negative are held
// back and appended at the very end, most helpful last.
//
// Every input review appears exactly once in the result.
func Arrange(positives, negatives []domain.Review, opts ArrangeOptions) []domain.Review {
	top, hasTop := MostHelpful(negatives)

	var tail []domain.Review
	if n := opts.TailVeterans; n > 0 {
		for _, r := range negatives {
			if len(tail) == n {
				break
			}
			if r.HoursPlayed >= opts.VeteranHours {
				tail = append(tail, r)
			}
		}
	}

	excluded := make(map[string]struct{}, len(tail)+1)
	if hasTop {
		// drop the top review from the tail by id, never by value
		kept := tail[:0:0]
		for _, r := range tail {
			if r.ID != top.ID {
				kept = append(kept, r)
			}
		}
		tail = kept
		excluded[top.ID] = struct{}{}
	}
	for _, r := range tail {
		excluded[r.ID] = struct{}{}
	}

	mainNeg := make([]domain.Review, 0, len(negatives))
	for _, r := range negatives {
		if _, ok := excluded[r.ID]; !ok {
			mainNeg = append(mainNeg, r)
		}
	}

	out := make([]domain.Review, 0, len(positives)+len(negatives))
	out = append(out, interleave(positives, mainNeg)...)
	out = append(out, tail...)
	if hasTop {
		out = append(out, top)
	}
	return out
}

// interleave emits a[i], b[i] pairs, then whatever is left of the longer slice.
func interleave(a, b []domain.Review) []domain.Review {
	out := make([]domain.Review, 0, len(a)+len(b))
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		out = append(out, a[i], b[i])
	}
	out = append(out, a[n:]...)
	return append(out, b[n:]...)
}
