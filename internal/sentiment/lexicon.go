package sentiment

import "strings"

// Lexicon holds the keyword sets used by the classifier.
// Matching is case-insensitive substring containment.
type Lexicon struct {
	Positive []string
	Negative []string
	Event    []string
	Breaking []string
}

// DefaultLexicon returns the stock keyword lists
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: []string{
			"upgrade", "upgrades", "beat", "record", "surge", "rally",
			"profit", "profits", "growth", "positive", "strong", "beat estimates",
		},
		Negative: []string{
			"downgrade", "downgrades", "miss", "missed", "loss", "losses",
			"scam", "fraud", "fall", "drop", "negative", "penalty", "fine",
			"probe", "investigation",
		},
		Event: []string{
			"results", "earnings", "q1", "q2", "q3", "q4", "quarter",
			"dividend", "bonus", "split", "merger", "acquisition", "rbi",
			"policy", "court", "hearing", "order", "judgment", "verdict",
		},
		Breaking: []string{
			"breaking", "just in", "live", "alert", "urgent", "flash",
		},
	}
}

// normalized returns a lower-cased deep copy without empty entries
func (l Lexicon) normalized() Lexicon {
	return Lexicon{
		Positive: normalize(l.Positive),
		Negative: normalize(l.Negative),
		Event:    normalize(l.Event),
		Breaking: normalize(l.Breaking),
	}
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func countHits(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
