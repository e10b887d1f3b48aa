package contracts

import "time"

// Headline is one news item supplied by a NewsProvider. Never persisted as-is.
type Headline struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
}

// SentimentLabel classifies the aggregate headline tone
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// SentimentResult is derived from one batch of headlines
type SentimentResult struct {
	Score   float64        `json:"score"` // [-1, 1]
	Label   SentimentLabel `json:"label"`
	Summary string         `json:"summary"`
}

// NewsRiskFlag marks scheduled or urgent news around an instrument
type NewsRiskFlag string

const (
	RiskNone     NewsRiskFlag = "NONE"
	RiskEvent    NewsRiskFlag = "EVENT_RISK"
	RiskBreaking NewsRiskFlag = "BREAKING"
)

// Elevated reports whether the flag caps the confidence score
func (f NewsRiskFlag) Elevated() bool {
	return f == RiskEvent || f == RiskBreaking
}
