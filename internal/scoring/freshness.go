package scoring

import "time"

// Freshness grades how old a signal is
type Freshness string

const (
	FreshnessFresh Freshness = "FRESH"
	FreshnessAging Freshness = "AGING"
	FreshnessStale Freshness = "STALE"
)

// Signal age limits
const (
	FreshFor = 3 * time.Minute
	AgingFor = 7 * time.Minute
)

// FreshnessOf grades a signal by its age
func FreshnessOf(age time.Duration) Freshness {
	switch {
	case age <= FreshFor:
		return FreshnessFresh
	case age <= AgingFor:
		return FreshnessAging
	}
	return FreshnessStale
}

// Describe returns the dashboard sentence for a freshness grade
func (f Freshness) Describe() string {
	switch f {
	case FreshnessFresh:
		return "Fresh (0 to 3 minutes old) - this signal is very recent."
	case FreshnessAging:
		return "Aging (3 to 7 minutes old) - this signal is getting older; do not chase if price has already moved."
	}
	return "Stale (more than 7 minutes old) - this signal is quite old, and entering now may be chasing."
}

// CooldownWindow is how far back repeated signals are counted
const CooldownWindow = 30 * time.Minute

// CooldownAdvisory warns against over-trading a ticker that keeps signalling
func CooldownAdvisory(recentSignals int) string {
	switch {
	case recentSignals >= 3:
		return "This stock has generated several signals in the last 30 minutes. " +
			"This is a gentle advisory to be selective and avoid over-trading on the same name."
	case recentSignals == 2:
		return "This stock has produced two signals in the last 30 minutes. " +
			"Consider whether you are reacting repeatedly to the same movement."
	}
	return "No soft cool-down advisory for this stock at the moment."
}
