package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"steam_reviews/internal/adapters/observability"
	"steam_reviews/internal/domain"
	"steam_reviews/internal/sampling"
)

// ReportService runs the sampling pipeline for one app and caches the result.
type ReportService struct {
	src      domain.ReviewSource
	cache    domain.Cache // optional
	policy   domain.SamplingPolicy
	cacheTTL time.Duration
	now      func() time.Time
}

func NewReportService(src domain.ReviewSource, c domain.Cache, p domain.SamplingPolicy, ttl time.Duration) *ReportService {
	return &ReportService{src: src, cache: c, policy: p, cacheTTL: ttl, now: time.Now}
}

func (s *ReportService) Policy() domain.SamplingPolicy { return s.policy }

// ResolveApp maps a user query (name, id or store URL) to an app.
func (s *ReportService) ResolveApp(ctx context.Context, query string) (domain.App, error) {
	key := "app:" + strings.ToLower(strings.TrimSpace(query))
	var app domain.App
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &app); ok {
			return app, nil
		}
	}
	app, err := s.src.ResolveApp(ctx, query)
	if err != nil {
		return domain.App{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, app, int(s.cacheTTL.Seconds()))
	}
	return app, nil
}

// Build returns the report for query, serving it from cache when possible.
func (s *ReportService) Build(ctx context.Context, query string, count int) (domain.Report, error) {
	return s.build(ctx, query, count, true)
}

// Refresh always refetches and overwrites the cached report.
func (s *ReportService) Refresh(ctx context.Context, query string, count int) (domain.Report, error) {
	return s.build(ctx, query, count, false)
}

func (s *ReportService) build(ctx context.Context, query string, count int, useCache bool) (domain.Report, error) {
	if count < 1 {
		return domain.Report{}, domain.ErrInvalidCount
	}
	app, err := s.ResolveApp(ctx, query)
	if err != nil {
		return domain.Report{}, err
	}

	key := fmt.Sprintf("report:%d:%d", app.ID, count)
	if useCache && s.cache != nil {
		var cached domain.Report
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	perSentiment := s.policy.PerSentiment(count)
	var pos, neg []domain.Review

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := s.src.Fetch(gctx, app.ID, domain.SentimentPositive, perSentiment)
		if err != nil {
			return fmt.Errorf("fetch positive reviews for %d: %w", app.ID, err)
		}
		pos = rs
		return nil
	})
	g.Go(func() error {
		rs, err := s.src.Fetch(gctx, app.ID, domain.SentimentNegative, perSentiment)
		if err != nil {
			return fmt.Errorf("fetch negative reviews for %d: %w", app.ID, err)
		}
		neg = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Report{}, err
	}

	rep := Assemble(app, count, pos, neg, s.policy)
	rep.GeneratedAt = s.now().UTC()

	observability.ObservePipeline(string(domain.SentimentPositive), "sampled", len(pos))
	observability.ObservePipeline(string(domain.SentimentNegative), "sampled", len(neg))
	observability.ObservePipeline("all", "arranged", len(rep.Reviews))
	log.Info().
		Int64("app_id", app.ID).
		Int("requested", count).
		Int("positives", len(pos)).
		Int("negatives", len(neg)).
		Msg("report built")

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rep, int(s.cacheTTL.Seconds()))
	}
	return rep, nil
}

// Assemble computes statistics over both samples, ranks each sentiment group
// by weight and arranges them into the final presentation order.
func Assemble(app domain.App, requested int, pos, neg []domain.Review, p domain.SamplingPolicy) domain.Report {
	all := make([]domain.Review, 0, len(pos)+len(neg))
	all = append(all, pos...)
	all = append(all, neg...)

	hours := make([]float64, len(all))
	votes := make([]int, len(all))
	for i, r := range all {
		hours[i] = r.HoursPlayed
		votes[i] = r.HelpfulVotes
	}

	st := domain.ReportStats{
		Total:          len(all),
		Positives:      len(pos),
		Negatives:      len(neg),
		MedianPlaytime: sampling.Median(hours),
		MedianHelpful:  sampling.MedianInt(votes),
		Strata:         sampling.StratumCounts(all, p.Strata),
	}
	if st.Total > 0 {
		st.PositivePct = float64(st.Positives) / float64(st.Total) * 100
		st.NegativePct = float64(st.Negatives) / float64(st.Total) * 100
	}

	rep := domain.Report{App: app, Requested: requested, Stats: st}
	if r, ok := sampling.MostHelpful(pos); ok {
		rep.TopPositive = &r
	}
	if r, ok := sampling.MostHelpful(neg); ok {
		rep.TopNegative = &r
	}

	rep.Reviews = sampling.Arrange(
		sampling.RankByWeight(pos),
		sampling.RankByWeight(neg),
		sampling.ArrangeOptions{VeteranHours: p.VeteranHours, TailVeterans: p.TailVeterans},
	)
	return rep
}
