package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"steam_reviews/internal/adapters/observability"
	"steam_reviews/internal/domain"
	"steam_reviews/internal/render"
)

// SnapshotService renders reports and stores them for later retrieval.
type SnapshotService struct {
	reports *ReportService
	repo    domain.SnapshotRepository
	opts    render.Options
	newID   func() string
}

func NewSnapshotService(rs *ReportService, repo domain.SnapshotRepository) *SnapshotService {
	return &SnapshotService{
		reports: rs,
		repo:    repo,
		opts:    render.OptionsFromPolicy(rs.Policy()),
		newID:   func() string { return uuid.NewString() },
	}
}

// Snapshot builds a fresh report for query and persists it together with the
// app and the sampled reviews. Unknown or inaccessible apps are recorded as
// misses and their error is returned.
func (s *SnapshotService) Snapshot(ctx context.Context, query string, count int) (domain.Snapshot, error) {
	rep, err := s.reports.Refresh(ctx, query, count)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAppNotFound), errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogMiss(ctx, query, 404, "app not found")
			observability.ObserveSnapshot("miss")
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
			_ = s.repo.LogMiss(ctx, query, 403, "forbidden")
			observability.ObserveSnapshot("miss")
		default:
			observability.ObserveSnapshot("error")
		}
		return domain.Snapshot{}, err
	}

	// Parent rows first to satisfy FKs.
	if err := s.repo.UpsertApp(ctx, rep.App); err != nil {
		return domain.Snapshot{}, err
	}
	if err := s.repo.UpsertReviews(ctx, rep.App.ID, rep.Reviews); err != nil {
		return domain.Snapshot{}, fmt.Errorf("upsert reviews failed for %d: %w", rep.App.ID, err)
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap := domain.Snapshot{
		ID:        s.newID(),
		AppID:     rep.App.ID,
		AppName:   rep.App.Name,
		Requested: count,
		Markdown:  render.Markdown(rep, s.opts),
		Payload:   payload,
		CreatedAt: rep.GeneratedAt,
	}
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		observability.ObserveSnapshot("error")
		return domain.Snapshot{}, err
	}
	observability.ObserveSnapshot("ok")
	return snap, nil
}

func (s *SnapshotService) Get(ctx context.Context, id string) (domain.Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	return s.repo.GetSnapshot(ctx, id)
}

// StoredReviews lists reviews persisted by earlier snapshots of an app.
func (s *SnapshotService) StoredReviews(ctx context.Context, appID int64, limit int) ([]domain.Review, error) {
	return s.repo.ListReviews(ctx, appID, limit)
}
