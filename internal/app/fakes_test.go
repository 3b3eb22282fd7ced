package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"steam_reviews/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	app      domain.App
	pos, neg []domain.Review
	err      error
	resolves int32
	fetches  int32
	targets  sync.Map // sentiment -> target
}

func (f *fakeSource) ResolveApp(ctx context.Context, query string) (domain.App, error) {
	atomic.AddInt32(&f.resolves, 1)
	if f.app.ID == 0 {
		return domain.App{}, domain.ErrAppNotFound
	}
	return f.app, nil
}

func (f *fakeSource) Fetch(ctx context.Context, appID int64, s domain.Sentiment, target int) ([]domain.Review, error) {
	atomic.AddInt32(&f.fetches, 1)
	f.targets.Store(s, target)
	if f.err != nil {
		return nil, f.err
	}
	if s == domain.SentimentPositive {
		return f.pos, nil
	}
	return f.neg, nil
}

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

type fakeRepo struct {
	apps    []domain.App
	reviews map[int64][]domain.Review
	snaps   map[string]domain.Snapshot
	misses  []string
	saveErr error
}

func (f *fakeRepo) UpsertApp(ctx context.Context, a domain.App) error {
	f.apps = append(f.apps, a)
	return nil
}
func (f *fakeRepo) UpsertReviews(ctx context.Context, appID int64, rs []domain.Review) error {
	if f.reviews == nil {
		f.reviews = map[int64][]domain.Review{}
	}
	f.reviews[appID] = rs
	return nil
}
func (f *fakeRepo) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.snaps == nil {
		f.snaps = map[string]domain.Snapshot{}
	}
	f.snaps[s.ID] = s
	return nil
}
func (f *fakeRepo) LogMiss(ctx context.Context, query string, status int, reason string) error {
	f.misses = append(f.misses, query)
	return nil
}
func (f *fakeRepo) GetSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	s, ok := f.snaps[id]
	if !ok {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	return s, nil
}

func rev(id string, positive bool, hours float64, votes int) domain.Review {
	return domain.Review{ID: id, Text: "text of " + id, Positive: positive, HoursPlayed: hours, HelpfulVotes: votes}
}
func (f *fakeRepo) ListReviews(ctx context.Context, appID int64, limit int) ([]domain.Review, error) {
	rs := f.reviews[appID]
	if len(rs) > limit {
		rs = rs[:limit]
	}
	return rs, nil
}
