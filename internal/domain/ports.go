package domain

import "context"

// ReviewSource fetches filtered reviews for one sentiment, already stratified
// and sorted by descending helpfulness within each stratum.
type ReviewSource interface {
	ResolveApp(ctx context.Context, query string) (App, error)
	Fetch(ctx context.Context, appID int64, sentiment Sentiment, target int) ([]Review, error)
}

type SnapshotRepository interface {
	// Write paths
	UpsertApp(ctx context.Context, a App) error
	UpsertReviews(ctx context.Context, appID int64, rs []Review) error
	SaveSnapshot(ctx context.Context, s Snapshot) error
	LogMiss(ctx context.Context, query string, status int, reason string) error

	// Read paths
	GetSnapshot(ctx context.Context, id string) (Snapshot, error)
	ListReviews(ctx context.Context, appID int64, limit int) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
