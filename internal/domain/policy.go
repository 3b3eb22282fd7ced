package domain

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// Stratum is a playtime range [MinHours, MaxHours) with a target share of the sample.
// A zero or +Inf MaxHours means the range has no upper bound.
type Stratum struct {
	Name     string  `yaml:"name" validate:"required"`
	MinHours float64 `yaml:"min_hours" validate:"gte=0"`
	MaxHours float64 `yaml:"max_hours" validate:"gte=0"`
	Share    float64 `yaml:"share" validate:"gte=0,lte=1"`
}

func (s Stratum) Unbounded() bool { return s.MaxHours == 0 || math.IsInf(s.MaxHours, 1) }

// Contains reports whether hours falls inside the stratum.
func (s Stratum) Contains(hours float64) bool {
	if hours < s.MinHours {
		return false
	}
	return s.Unbounded() || hours < s.MaxHours
}

// SamplingPolicy holds every numeric knob of the sampling pipeline.
// Strata are matched in declared order; overlaps and gaps are not rejected.
type SamplingPolicy struct {
	Strata []Stratum `yaml:"strata" validate:"required,min=1,dive"`

	// raw filter
	MinPlaytime   float64 `yaml:"min_playtime" validate:"gte=0"`
	MinTextLength int     `yaml:"min_text_length" validate:"gte=0"`

	// fetch
	FetchBufferSize int `yaml:"fetch_buffer_size" validate:"gt=0"`
	MaxPerPage      int `yaml:"max_per_page" validate:"gt=0,lte=100"`
	MaxAPIAttempts  int `yaml:"max_api_attempts" validate:"gt=0"`
	AllTimeDays     int `yaml:"all_time_days" validate:"gt=0"`

	// arrangement
	VeteranHours float64 `yaml:"veteran_hours" validate:"gte=0"`
	TailVeterans int     `yaml:"tail_veterans" validate:"gte=0"`

	// request sizing
	DefaultReviewCount     int `yaml:"default_review_count" validate:"gt=0"`
	MinReviewsPerSentiment int `yaml:"min_reviews_per_sentiment" validate:"gte=1"`
	SentimentDivisor       int `yaml:"sentiment_divisor" validate:"gte=1"`

	// rendering
	PreviewTextLength int `yaml:"preview_text_length" validate:"gt=0"`
	BarBlocks         int `yaml:"bar_blocks" validate:"gt=0"`
}

// DefaultPolicy mirrors the tuning used in production.
func DefaultPolicy() SamplingPolicy {
	return SamplingPolicy{
		Strata: []Stratum{
			{Name: "Beginner", MinHours: 2, MaxHours: 20, Share: 0.20},
			{Name: "Intermediate", MinHours: 20, MaxHours: 100, Share: 0.40},
			{Name: "Veteran", MinHours: 100, MaxHours: 500, Share: 0.30},
			{Name: "Hardcore", MinHours: 500, MaxHours: math.Inf(1), Share: 0.10},
		},
		MinPlaytime:            2.0,
		MinTextLength:          100,
		FetchBufferSize:        300,
		MaxPerPage:             100,
		MaxAPIAttempts:         10,
		AllTimeDays:            36500,
		VeteranHours:           500,
		TailVeterans:           5,
		DefaultReviewCount:     40,
		MinReviewsPerSentiment: 5,
		SentimentDivisor:       2,
		PreviewTextLength:      300,
		BarBlocks:              20,
	}
}

func (p *SamplingPolicy) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// PerSentiment splits a total review count between the two sentiment pools.
func (p SamplingPolicy) PerSentiment(total int) int {
	return max(p.MinReviewsPerSentiment, total/p.SentimentDivisor)
}
