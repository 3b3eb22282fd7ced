// internal/adapters/steam/client.go
package steam

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"steam_reviews/internal/adapters/observability"
	"steam_reviews/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid steam base URL %q", base)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Wire types ----

type searchResult struct {
	Total int `json:"total"`
	Items []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"items"`
}

type appDetails map[string]struct {
	Success bool `json:"success"`
	Data    struct {
		Name string `json:"name"`
	} `json:"data"`
}

// ReviewPage is one page of the appreviews endpoint.
type ReviewPage struct {
	Success int         `json:"success"`
	Cursor  string      `json:"cursor"`
	Reviews []RawReview `json:"reviews"`
}

type RawReview struct {
	RecommendationID string `json:"recommendationid"`
	Author           struct {
		PlaytimeForever float64 `json:"playtime_forever"` // minutes
	} `json:"author"`
	Review           string `json:"review"`
	VotedUp          bool   `json:"voted_up"`
	VotesUp          int    `json:"votes_up"`
	TimestampCreated int64  `json:"timestamp_created"`
	ReceivedForFree  bool   `json:"received_for_free"`
}

// PageQuery selects one page of reviews.
type PageQuery struct {
	Sentiment domain.Sentiment
	Cursor    string
	PerPage   int
	DayRange  int
}

// ---- Public API ----

// SearchApp returns the most relevant store match for term.
func (c *Client) SearchApp(ctx context.Context, term string) (domain.App, error) {
	q := url.Values{"term": {term}, "l": {"english"}, "cc": {"US"}}
	var out searchResult
	if err := c.get(ctx, "storesearch", c.base+"/api/storesearch/?"+q.Encode(), &out); err != nil {
		return domain.App{}, err
	}
	if out.Total == 0 || len(out.Items) == 0 {
		return domain.App{}, domain.ErrAppNotFound
	}
	return domain.App{ID: out.Items[0].ID, Name: out.Items[0].Name}, nil
}

// AppName looks up the display name of a known app id.
func (c *Client) AppName(ctx context.Context, id int64) (string, error) {
	key := strconv.FormatInt(id, 10)
	q := url.Values{"appids": {key}, "filters": {"basic"}}
	var out appDetails
	if err := c.get(ctx, "appdetails", c.base+"/api/appdetails?"+q.Encode(), &out); err != nil {
		return "", err
	}
	d, ok := out[key]
	if !ok || !d.Success {
		return "", domain.ErrAppNotFound
	}
	return d.Data.Name, nil
}

func (c *Client) ReviewPage(ctx context.Context, appID int64, pq PageQuery) (ReviewPage, error) {
	q := url.Values{
		"json":          {"1"},
		"filter":        {"all"},
		"language":      {"all"},
		"review_type":   {string(pq.Sentiment)},
		"purchase_type": {"all"},
		"num_per_page":  {strconv.Itoa(pq.PerPage)},
		"cursor":        {pq.Cursor},
	}
	if pq.DayRange > 0 {
		q.Set("day_range", strconv.Itoa(pq.DayRange))
	}
	var out ReviewPage
	err := c.get(ctx, "appreviews", fmt.Sprintf("%s/appreviews/%d?%s", c.base, appID, q.Encode()), &out)
	return out, err
}

// ---- Internals ----

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("steam", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("steam", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode %s: %w", endpoint, err)
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return domain.ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return domain.ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("steam %s: remote %d", endpoint, resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("steam %s: bad status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
