package domain

import (
	"math"
	"time"
)

// Review is a single user review as delivered by a ReviewSource.
// Values are never mutated after the fetch that produced them.
type Review struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Positive     bool      `json:"positive"`
	HoursPlayed  float64   `json:"hours_played"`
	HelpfulVotes int       `json:"helpful_votes"`
	CreatedAt    time.Time `json:"created_at"`
	FreeProduct  bool      `json:"free_product"`
}

// Weight is hours_played × ln(helpful_votes + 1).
func (r Review) Weight() float64 {
	return r.HoursPlayed * math.Log(float64(r.HelpfulVotes)+1)
}

// Sentiment selects one of the two review pools on the platform.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
)

// App identifies a product on the review platform.
type App struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
