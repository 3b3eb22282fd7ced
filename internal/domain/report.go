package domain

import "time"

// StratumCount is the number of reviews that fell into a named stratum.
type StratumCount struct {
	Name     string   `json:"name"`
	MinHours float64  `json:"min_hours"`
	MaxHours *float64 `json:"max_hours,omitempty"` // nil when unbounded
	Count    int      `json:"count"`
}

// ReportStats are plain aggregates over the sampled reviews (both sentiments).
type ReportStats struct {
	Total          int            `json:"total"`
	Positives      int            `json:"positives"`
	Negatives      int            `json:"negatives"`
	PositivePct    float64        `json:"positive_pct"`
	NegativePct    float64        `json:"negative_pct"`
	MedianPlaytime float64        `json:"median_playtime"`
	MedianHelpful  float64        `json:"median_helpful"`
	Strata         []StratumCount `json:"strata"`
}

// Report is the output of one pipeline run, ready for rendering.
type Report struct {
	App         App         `json:"app"`
	Requested   int         `json:"requested"`
	Stats       ReportStats `json:"stats"`
	TopPositive *Review     `json:"top_positive,omitempty"`
	TopNegative *Review     `json:"top_negative,omitempty"`
	Reviews     []Review    `json:"reviews"` // arranged order
	GeneratedAt time.Time   `json:"generated_at"`
}

// Snapshot is a persisted, rendered report.
type Snapshot struct {
	ID        string
	AppID     int64
	AppName   string
	Requested int
	Markdown  string
	Payload   []byte // JSON of the Report
	CreatedAt time.Time
}
