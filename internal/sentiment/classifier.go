// Package sentiment turns a batch of headlines into a sentiment score and a
// news risk flag with a deterministic keyword classifier.
package sentiment

import (
	"math"
	"strings"

	"github.com/wonny/scalpdesk/internal/contracts"
)

const (
	// NoNewsSummary is the summary for an empty headline batch
	NoNewsSummary = "No recent news found for this stock."
	// FallbackSummary is used when no headline carries a title
	FallbackSummary = "News is available, but not strongly directional."
)

// Config tunes the classifier
type Config struct {
	Lexicon        Lexicon
	LabelThreshold float64 // |score| above this is directional
	SummaryTitles  int     // titles joined into the summary
}

// DefaultConfig returns the stock thresholds
func DefaultConfig() Config {
	return Config{
		Lexicon:        DefaultLexicon(),
		LabelThreshold: 0.2,
		SummaryTitles:  2,
	}
}

// Classifier is immutable after construction and safe for concurrent use
// ⭐ SSOT: 뉴스 감성/리스크 판정은 여기서만
type Classifier struct {
	lex       Lexicon
	threshold float64
	titles    int
}

// New creates a classifier. The lexicon is copied.
func New(cfg Config) *Classifier {
	return &Classifier{
		lex:       cfg.Lexicon.normalized(),
		threshold: cfg.LabelThreshold,
		titles:    cfg.SummaryTitles,
	}
}

// Default returns a classifier with the stock lexicon
func Default() *Classifier {
	return New(DefaultConfig())
}

// Classify scores the batch and flags its news risk
func (c *Classifier) Classify(headlines []contracts.Headline) (contracts.SentimentResult, contracts.NewsRiskFlag) {
	return c.Score(headlines), c.Risk(headlines)
}

// Score returns the normalized sentiment of the batch
func (c *Classifier) Score(headlines []contracts.Headline) contracts.SentimentResult {
	if len(headlines) == 0 {
		return contracts.SentimentResult{
			Score:   0,
			Label:   contracts.SentimentNeutral,
			Summary: NoNewsSummary,
		}
	}

	var sum float64
	maxAbs := 1
	for _, h := range headlines {
		text := headlineText(h)
		s := countHits(text, c.lex.Positive) - countHits(text, c.lex.Negative)
		sum += float64(s)
		if abs := int(math.Abs(float64(s))); abs > maxAbs {
			maxAbs = abs
		}
	}

	score := (sum / float64(len(headlines))) / float64(maxAbs)

	return contracts.SentimentResult{
		Score:   score,
		Label:   c.label(score),
		Summary: c.summary(headlines),
	}
}

// Risk flags event or breaking news. BREAKING dominates EVENT_RISK.
func (c *Classifier) Risk(headlines []contracts.Headline) contracts.NewsRiskFlag {
	hasEvent := false
	for _, h := range headlines {
		text := headlineText(h)
		if containsAny(text, c.lex.Breaking) {
			return contracts.RiskBreaking
		}
		if !hasEvent && containsAny(text, c.lex.Event) {
			hasEvent = true
		}
	}
	if hasEvent {
		return contracts.RiskEvent
	}
	return contracts.RiskNone
}

func (c *Classifier) label(score float64) contracts.SentimentLabel {
	switch {
	case score > c.threshold:
		return contracts.SentimentPositive
	case score < -c.threshold:
		return contracts.SentimentNegative
	}
	return contracts.SentimentNeutral
}

func (c *Classifier) summary(headlines []contracts.Headline) string {
	titles := make([]string, 0, c.titles)
	for _, h := range headlines {
		if len(titles) == c.titles {
			break
		}
		if h.Title != "" {
			titles = append(titles, h.Title)
		}
	}
	if len(titles) == 0 {
		return FallbackSummary
	}
	return strings.Join(titles, "; ")
}

func headlineText(h contracts.Headline) string {
	return strings.ToLower(h.Title + " " + h.Description)
}
