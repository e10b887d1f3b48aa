package journal

import (
	"sort"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
)

// Ledger is the in-memory keyed view of the journal.
// Records keep insertion order; a replaced record keeps its position.
type Ledger struct {
	index   map[contracts.PredictionKey]int
	records []contracts.Prediction
}

// NewLedger builds a ledger from stored rows. Duplicate keys keep the last
// row, at the position of that last row.
func NewLedger(rows []contracts.Prediction) *Ledger {
	last := make(map[contracts.PredictionKey]int, len(rows))
	for i, p := range rows {
		last[p.Key()] = i
	}

	l := &Ledger{
		index:   make(map[contracts.PredictionKey]int, len(last)),
		records: make([]contracts.Prediction, 0, len(last)),
	}
	for i, p := range rows {
		if last[p.Key()] != i {
			continue
		}
		l.index[p.Key()] = len(l.records)
		l.records = append(l.records, p)
	}
	return l
}

// Merge upserts a batch: existing keys are replaced in place, new keys are
// appended. Within the batch the last record for a key wins.
func (l *Ledger) Merge(batch contracts.PredictionBatch) UpsertStats {
	var stats UpsertStats
	for _, p := range batch {
		key := p.Key()
		if i, ok := l.index[key]; ok {
			l.records[i] = p
			stats.Replaced++
			continue
		}
		l.index[key] = len(l.records)
		l.records = append(l.records, p)
		stats.Inserted++
	}
	stats.Total = len(l.records)
	return stats
}

// Get returns the record stored under key
func (l *Ledger) Get(key contracts.PredictionKey) (contracts.Prediction, bool) {
	i, ok := l.index[key]
	if !ok {
		return contracts.Prediction{}, false
	}
	return l.records[i], true
}

// Len returns the number of live records
func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a copy of the live records in ledger order
func (l *Ledger) Records() []contracts.Prediction {
	out := make([]contracts.Prediction, len(l.records))
	copy(out, l.records)
	return out
}

// Select returns the records matching the filter, in ledger order
func Select(rows []contracts.Prediction, f Filter) []contracts.Prediction {
	out := make([]contracts.Prediction, 0, len(rows))
	for _, p := range rows {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// LatestPerTicker returns the newest record of each ticker, sorted by ticker
func LatestPerTicker(rows []contracts.Prediction) []contracts.Prediction {
	latest := make(map[string]contracts.Prediction)
	for _, p := range rows {
		cur, ok := latest[p.Ticker]
		if !ok || !p.DatetimeIST.Before(cur.DatetimeIST) {
			latest[p.Ticker] = p
		}
	}

	out := make([]contracts.Prediction, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// RecentCounts counts records per ticker at or after since
func RecentCounts(rows []contracts.Prediction, since time.Time) map[string]int {
	counts := make(map[string]int)
	for _, p := range rows {
		if !p.DatetimeIST.Before(since) {
			counts[p.Ticker]++
		}
	}
	return counts
}
