package contracts

import (
	"context"
	"time"
)

// MarketData supplies price series
// ⭐ SSOT: 시세 데이터 협력자 인터페이스
type MarketData interface {
	// IntradaySeries returns today's intraday bars; may be empty
	IntradaySeries(ctx context.Context, symbol string) (Series, error)
	// EODTrend classifies the benchmark's daily trend
	EODTrend(ctx context.Context, benchmarkSymbol string) (BenchmarkTrend, error)
}

// NewsProvider supplies recent headlines; may be a no-op stub
// ⭐ SSOT: 뉴스 협력자 인터페이스
type NewsProvider interface {
	Headlines(ctx context.Context, ticker string, limit int) ([]Headline, error)
}

// WatchlistSource enumerates the instruments usable on a date
// ⭐ SSOT: 워치리스트 협력자 인터페이스
type WatchlistSource interface {
	EntriesFor(ctx context.Context, date time.Time) ([]WatchlistEntry, error)
}
