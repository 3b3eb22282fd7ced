package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"steam_reviews/internal/domain"
)

func valTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertApp(ctx context.Context, a domain.App) error {
	_, err := r.db.ExecContext(ctx, upsertAppSQL, a.ID, a.Name)
	return err
}

func (r *Repo) UpsertReviews(ctx context.Context, appID int64, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*8)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ID,
			appID,
			rv.Positive,
			rv.HoursPlayed,
			rv.HelpfulVotes,
			rv.FreeProduct,
			rv.Text,
			valTime(rv.CreatedAt),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, insertSnapshotSQL,
		s.ID, s.AppID, s.AppName, s.Requested, s.Markdown, string(s.Payload), created.UTC())
	return err
}

func (r *Repo) LogMiss(ctx context.Context, query string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, truncateRunes(query, 255), status, reason)
	return err
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (r *Repo) GetSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	var s domain.Snapshot
	var payload []byte
	err := r.db.QueryRowContext(ctx, getSnapshotSQL, id).Scan(
		&s.ID, &s.AppID, &s.AppName, &s.Requested, &s.Markdown, &payload, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	s.Payload = payload
	return s, nil
}

// ListReviews returns the stored reviews of an app, most helpful first.
func (r *Repo) ListReviews(ctx context.Context, appID int64, limit int) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, appID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var created sql.NullTime
		if err := rows.Scan(&rv.ID, &rv.Positive, &rv.HoursPlayed, &rv.HelpfulVotes, &rv.FreeProduct, &rv.Text, &created); err != nil {
			return nil, err
		}
		if created.Valid {
			rv.CreatedAt = created.Time
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
