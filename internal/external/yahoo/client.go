// Package yahoo reads intraday and daily bars from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/pkg/config"
	"github.com/wonny/scalpdesk/pkg/httputil"
	"github.com/wonny/scalpdesk/pkg/logger"
	"github.com/wonny/scalpdesk/pkg/redis"
)

// TrendFunc classifies daily closes (features.BenchmarkTrend)
type TrendFunc func(dailyCloses []float64) contracts.BenchmarkTrend

// Client implements contracts.MarketData
// ⭐ SSOT: Yahoo chart API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	limiter    *rate.Limiter
	cache      *redis.Cache
	trend      TrendFunc
	logger     *logger.Logger

	baseURL  string
	interval string
	location *time.Location // trading date used for the EOD cache key
}

// NewClient creates a Yahoo chart client.
// cache may be backed by a disabled redis client.
func NewClient(cfg config.MarketConfig, httpClient *httputil.Client, cache *redis.Cache, trend TrendFunc, loc *time.Location, log *logger.Logger) *Client {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}
	interval := cfg.Interval
	if interval == "" {
		interval = "5m"
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      cache,
		trend:      trend,
		logger:     log.WithField("module", "yahoo"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		interval:   interval,
		location:   loc,
	}
}

// IntradaySeries returns today's bars at the configured interval
func (c *Client) IntradaySeries(ctx context.Context, symbol string) (contracts.Series, error) {
	series, err := c.chart(ctx, symbol, "1d", c.interval)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(series),
	}).Debug("fetched intraday series")
	return series, nil
}

// DailySeries returns roughly six months of daily bars
func (c *Client) DailySeries(ctx context.Context, symbol string) (contracts.Series, error) {
	return c.chart(ctx, symbol, "120d", "1d")
}

// EODTrend classifies the benchmark's daily trend; cached per trading date
func (c *Client) EODTrend(ctx context.Context, symbol string) (contracts.BenchmarkTrend, error) {
	key := redis.BenchmarkTrendKey(symbol, time.Now().In(c.location).Format("2006-01-02"))

	var trend contracts.BenchmarkTrend
	err := c.cache.GetOrSet(ctx, key, &trend, redis.TTLDaily, func() (interface{}, error) {
		daily, err := c.DailySeries(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return c.trend(daily.Closes()), nil
	})
	if err != nil {
		return contracts.BenchmarkNeutral, err
	}
	return trend, nil
}

func (c *Client) chart(ctx context.Context, symbol, rangeParam, interval string) (contracts.Series, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("range", rangeParam)
	params.Set("interval", interval)
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch chart %s: %w", symbol, err)
	}

	series, err := resp.series()
	if err != nil {
		return nil, fmt.Errorf("parse chart %s: %w", symbol, err)
	}
	return series, nil
}
