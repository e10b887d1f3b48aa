// Package watchlist reads the screener's active watchlist CSV.
package watchlist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/pkg/logger"
)

const dateLayout = "2006-01-02"

// DefaultSuffix is appended to a ticker when data_symbol is blank
const DefaultSuffix = ".NS"

// CSVSource implements contracts.WatchlistSource over
// ticker,data_symbol,index_bucket,usable_for_date
// ⭐ SSOT: 워치리스트 파일 읽기는 여기서만
type CSVSource struct {
	path   string
	logger *logger.Logger
}

// NewCSVSource creates a watchlist reader for path
func NewCSVSource(path string, log *logger.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: log.WithField("module", "watchlist"),
	}
}

// EntriesFor returns the instruments usable on date, in file order.
// A missing file or a file without usable_for_date yields no entries.
func (s *CSVSource) EntriesFor(ctx context.Context, date time.Time) ([]contracts.WatchlistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.WithField("path", s.path).Warn("watchlist file not found")
		return []contracts.WatchlistEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}
	defer f.Close()

	entries, err := s.parse(f, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("read watchlist %s: %w", s.path, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"date":    date.Format(dateLayout),
		"entries": len(entries),
	}).Debug("watchlist loaded")
	return entries, nil
}

func (s *CSVSource) parse(r io.Reader, day string) ([]contracts.WatchlistEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []contracts.WatchlistEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := idx["ticker"]; !ok {
		s.logger.Warn("watchlist has no ticker column")
		return []contracts.WatchlistEntry{}, nil
	}
	if _, ok := idx["usable_for_date"]; !ok {
		s.logger.Warn("watchlist has no usable_for_date column")
		return []contracts.WatchlistEntry{}, nil
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entries := []contracts.WatchlistEntry{}
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		usable, ok := normalizeDate(field(row, "usable_for_date"))
		if !ok {
			s.logger.WithField("line", line).Warn("skipping watchlist row with invalid usable_for_date")
			continue
		}
		ticker := strings.ToUpper(field(row, "ticker"))
		if usable != day || ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true

		symbol := field(row, "data_symbol")
		if symbol == "" {
			symbol = ticker + DefaultSuffix
		}
		entries = append(entries, contracts.WatchlistEntry{
			Ticker:      ticker,
			DataSymbol:  symbol,
			IndexBucket: field(row, "index_bucket"),
		})
	}
	return entries, nil
}

// normalizeDate accepts "YYYY-MM-DD" optionally followed by a time part
func normalizeDate(s string) (string, bool) {
	if len(s) < len(dateLayout) {
		return "", false
	}
	d, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return "", false
	}
	return d.Format(dateLayout), true
}
