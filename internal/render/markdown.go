// Package render turns a domain.Report into LLM-friendly markdown.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"steam_reviews/internal/domain"
)

type Options struct {
	BarBlocks  int // width of a 100% playtime bar
	PreviewLen int // runes shown for top-signal previews
}

func OptionsFromPolicy(p domain.SamplingPolicy) Options {
	return Options{BarBlocks: p.BarBlocks, PreviewLen: p.PreviewTextLength}
}

// Markdown renders the report header, statistics, top signals and every
// review in arranged order.
func Markdown(r domain.Report, o Options) string {
	var b strings.Builder
	st := r.Stats

	if st.Total == 0 {
		fmt.Fprintf(&b, "No reviews found for '%s' (AppID: %d).\n", r.App.Name, r.App.ID)
		return b.String()
	}

	fmt.Fprintf(&b, "# Steam review analysis: %s (AppID: %d)\n\n", r.App.Name, r.App.ID)

	b.WriteString("## Sample metadata\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Total reviews | %d |\n", st.Total)
	fmt.Fprintf(&b, "| Positive | %d (%.0f%%) |\n", st.Positives, st.PositivePct)
	fmt.Fprintf(&b, "| Negative | %d (%.0f%%) |\n", st.Negatives, st.NegativePct)
	fmt.Fprintf(&b, "| Median playtime | %.1fh |\n", st.MedianPlaytime)
	fmt.Fprintf(&b, "| Median helpful | %.0f |\n\n", st.MedianHelpful)

	b.WriteString("## Playtime distribution\n```\n")
	fmt.Fprintf(&b, "Playtime: %s\n", DistributionBar(st.Strata, st.Total, o.BarBlocks))
	b.WriteString("```\n\n")

	b.WriteString("## Top signals (for calibration)\n\n")
	writeSignal(&b, "Most helpful positive", r.TopPositive, o.PreviewLen)
	writeSignal(&b, "Most helpful negative", r.TopNegative, o.PreviewLen)

	b.WriteString("---\n## All reviews\n\n")
	for _, rv := range r.Reviews {
		b.WriteString(FormatReview(rv))
		b.WriteString("\n\n")
	}
	return b.String()
}

func writeSignal(b *strings.Builder, label string, r *domain.Review, n int) {
	if r == nil {
		return
	}
	fmt.Fprintf(b, "**%s (%.1fh, helpful: %d):**\n", label, r.HoursPlayed, r.HelpfulVotes)
	fmt.Fprintf(b, "> %s\n\n", preview(r.Text, n))
}

// DistributionBar draws one block group per stratum, e.g. "[2-20h: ████ 4]".
func DistributionBar(strata []domain.StratumCount, total, blocks int) string {
	if total == 0 {
		return "N/A"
	}
	parts := make([]string, 0, len(strata))
	for _, s := range strata {
		n := int(float64(s.Count) / float64(total) * float64(blocks))
		parts = append(parts, fmt.Sprintf("[%s: %s %d]", rangeLabel(s), strings.Repeat("█", n), s.Count))
	}
	return strings.Join(parts, " ")
}

func rangeLabel(s domain.StratumCount) string {
	lo := strconv.FormatFloat(s.MinHours, 'f', -1, 64)
	if s.MaxHours == nil {
		return lo + "h+"
	}
	return lo + "-" + strconv.FormatFloat(*s.MaxHours, 'f', -1, 64) + "h"
}

// FormatReview renders a single review block with its metadata header.
// Runs of whitespace in the text collapse to single spaces.
func FormatReview(r domain.Review) string {
	sentiment := "NEGATIVE"
	if r.Positive {
		sentiment = "POSITIVE"
	}
	free := ""
	if r.FreeProduct {
		free = " [FREE PRODUCT]"
	}
	header := fmt.Sprintf("[%s | Playtime: %.1fh | Helpful: %d | Date: %s]%s",
		sentiment, r.HoursPlayed, r.HelpfulVotes, r.CreatedAt.UTC().Format("2006-01-02"), free)
	return "---\n" + header + "\n" + strings.Join(strings.Fields(r.Text), " ") + "\n---"
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "..."
}
