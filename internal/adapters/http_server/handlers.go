// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"steam_reviews/internal/domain"
	"steam_reviews/internal/render"
)

// ReportBuilder is the read side used by the handlers.
type ReportBuilder interface {
	Build(ctx context.Context, query string, count int) (domain.Report, error)
	Policy() domain.SamplingPolicy
}

// SnapshotStore is the write/read side for persisted reports.
type SnapshotStore interface {
	Snapshot(ctx context.Context, query string, count int) (domain.Snapshot, error)
	Get(ctx context.Context, id string) (domain.Snapshot, error)
	StoredReviews(ctx context.Context, appID int64, limit int) ([]domain.Review, error)
}

type Handlers struct {
	Reports   ReportBuilder
	Snapshots SnapshotStore // optional; snapshot routes are skipped when nil
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/apps/{query}/reviews", h.getReviews)
	s.mux.Get("/v1/apps/{query}/report", h.getReport)
	if h.Snapshots != nil {
		s.mux.Post("/v1/apps/{query}/snapshots", h.createSnapshot)
		s.mux.Get("/v1/apps/{query}/stored-reviews", h.listStoredReviews)
		s.mux.Get("/v1/snapshots/{id}", h.getSnapshot)
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCount):
		writeProblem(w, http.StatusBadRequest, "Invalid count", err.Error())
	case errors.Is(err, domain.ErrAppNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "app not found")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", "upstream did not answer in time")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusBadGateway, "Upstream Error", "review platform request failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	return etagOf(body), body
}

func etagOf(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

// countParam reads ?count=, falling back to def. Returns ok=false after
// writing a 400 when the value is malformed.
func countParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	cs := r.URL.Query().Get("count")
	if cs == "" {
		return def, true
	}
	n, err := strconv.Atoi(cs)
	if err != nil || n <= 0 || n > 500 {
		writeProblem(w, http.StatusBadRequest, "Invalid count", "count must be an integer between 1 and 500")
		return 0, false
	}
	return n, true
}

func writeBody(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	etag := etagOf(body)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	count, ok := countParam(w, r, h.Reports.Policy().DefaultReviewCount)
	if !ok {
		return
	}
	rep, err := h.Reports.Build(r.Context(), chi.URLParam(r, "query"), count)
	if err != nil {
		writeError(w, err)
		return
	}
	_, body := calcETagAndBody(rep)
	writeBody(w, r, "application/json", body)
}

func (h *Handlers) getReport(w http.ResponseWriter, r *http.Request) {
	count, ok := countParam(w, r, h.Reports.Policy().DefaultReviewCount)
	if !ok {
		return
	}
	rep, err := h.Reports.Build(r.Context(), chi.URLParam(r, "query"), count)
	if err != nil {
		writeError(w, err)
		return
	}
	md := render.Markdown(rep, render.OptionsFromPolicy(h.Reports.Policy()))
	writeBody(w, r, "text/markdown; charset=utf-8", []byte(md))
}

func (h *Handlers) createSnapshot(w http.ResponseWriter, r *http.Request) {
	count, ok := countParam(w, r, h.Reports.Policy().DefaultReviewCount)
	if !ok {
		return
	}
	snap, err := h.Snapshots.Snapshot(r.Context(), chi.URLParam(r, "query"), count)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/v1/snapshots/"+snap.ID)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": snap.ID, "app_id": snap.AppID, "app_name": snap.AppName})
}

func (h *Handlers) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshots.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeBody(w, r, "text/markdown; charset=utf-8", []byte(snap.Markdown))
}

func (h *Handlers) listStoredReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "query"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	out, err := h.Snapshots.StoredReviews(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if out == nil {
		out = []domain.Review{}
	}
	_, body := calcETagAndBody(map[string]any{"items": out})
	writeBody(w, r, "application/json", body)
}
