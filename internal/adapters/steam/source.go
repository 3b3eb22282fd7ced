package steam

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"steam_reviews/internal/domain"
	"steam_reviews/internal/sampling"
)

var storeURLRe = regexp.MustCompile(`/app/(\d+)`)

// Source implements domain.ReviewSource on top of the Steam store API.
type Source struct {
	c      *Client
	policy domain.SamplingPolicy
}

func NewSource(c *Client, p domain.SamplingPolicy) *Source {
	return &Source{c: c, policy: p}
}

// ResolveApp accepts a store page URL, a numeric app id or a free-text name.
func (s *Source) ResolveApp(ctx context.Context, query string) (domain.App, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.App{}, domain.ErrAppNotFound
	}

	if id, ok := parseAppID(query); ok {
		name, err := s.c.AppName(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.App{}, domain.ErrAppNotFound
			}
			return domain.App{}, err
		}
		return domain.App{ID: id, Name: name}, nil
	}
	return s.c.SearchApp(ctx, query)
}

func parseAppID(q string) (int64, bool) {
	if m := storeURLRe.FindStringSubmatch(q); m != nil {
		id, err := strconv.ParseInt(m[1], 10, 64)
		return id, err == nil
	}
	id, err := strconv.ParseInt(q, 10, 64)
	return id, err == nil && id > 0
}

// Fetch pages through one sentiment pool until the buffer is full or the
// attempt budget runs out, filters each page, orders the buffer by helpful
// votes and returns a stratified sample of at most target reviews.
//
// An error on the first page is returned. A failure on a later page ends
// paging and the reviews gathered so far are still sampled.
func (s *Source) Fetch(ctx context.Context, appID int64, sentiment domain.Sentiment, target int) ([]domain.Review, error) {
	p := s.policy
	var buf []domain.Review
	seen := make(map[string]struct{})
	cursor := "*"
	pages := 0

	for len(buf) < p.FetchBufferSize && pages < p.MaxAPIAttempts {
		pages++
		page, err := s.c.ReviewPage(ctx, appID, PageQuery{
			Sentiment: sentiment,
			Cursor:    cursor,
			PerPage:   p.MaxPerPage,
			DayRange:  p.AllTimeDays,
		})
		if err != nil {
			if pages == 1 || ctx.Err() != nil {
				return nil, err
			}
			log.Warn().Err(err).
				Int64("app_id", appID).
				Str("sentiment", string(sentiment)).
				Int("page", pages).
				Msg("review paging stopped early")
			break
		}
		if page.Success != 1 || len(page.Reviews) == 0 {
			break
		}

		batch := make([]domain.Review, 0, len(page.Reviews))
		for _, raw := range page.Reviews {
			// cursors can repeat a review across pages; keep the first copy
			if _, dup := seen[raw.RecommendationID]; dup {
				continue
			}
			seen[raw.RecommendationID] = struct{}{}
			batch = append(batch, toReview(raw))
		}
		buf = append(buf, sampling.Filter(batch, p.MinPlaytime, p.MinTextLength)...)

		if page.Cursor == "" || page.Cursor == cursor {
			break
		}
		cursor = page.Cursor
	}

	buf = sampling.SortByHelpfulness(buf)
	out := sampling.Stratify(buf, p.Strata, target)

	log.Debug().
		Int64("app_id", appID).
		Str("sentiment", string(sentiment)).
		Int("pages", pages).
		Int("kept", len(buf)).
		Int("sampled", len(out)).
		Msg("reviews fetched")
	return out, nil
}

func toReview(r RawReview) domain.Review {
	return domain.Review{
		ID:           r.RecommendationID,
		Text:         strings.TrimSpace(r.Review),
		Positive:     r.VotedUp,
		HoursPlayed:  r.Author.PlaytimeForever / 60.0,
		HelpfulVotes: r.VotesUp,
		CreatedAt:    time.Unix(r.TimestampCreated, 0).UTC(),
		FreeProduct:  r.ReceivedForFree,
	}
}
