// Package newsapi fetches recent headlines from NewsAPI.org.
package newsapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/pkg/config"
	"github.com/wonny/scalpdesk/pkg/httputil"
	"github.com/wonny/scalpdesk/pkg/logger"
	"github.com/wonny/scalpdesk/pkg/redis"
)

// Client implements contracts.NewsProvider
// ⭐ SSOT: NewsAPI 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	cacheTTL   time.Duration
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a NewsAPI client. The API key travels in X-Api-Key and
// every request passes the shared redis quota.
func NewClient(cfg config.NewsConfig, httpClient *httputil.Client, cache *redis.Cache, limiter *redis.RateLimiter, log *logger.Logger) *Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = redis.TTLHeadlines
	}

	httpClient.WithHeader("X-Api-Key", cfg.APIKey)
	if limiter != nil {
		httpClient.WithRateLimiter(limiter, redis.NewsAPIRateLimit)
	}

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		cacheTTL:   ttl,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     log.WithField("module", "newsapi"),
	}
}

type everythingResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Headlines returns at most limit recent English headlines for ticker
func (c *Client) Headlines(ctx context.Context, ticker string, limit int) ([]contracts.Headline, error) {
	if limit <= 0 {
		return []contracts.Headline{}, nil
	}

	var headlines []contracts.Headline
	err := c.cache.GetOrSet(ctx, redis.HeadlinesKey(ticker, limit), &headlines, c.cacheTTL, func() (interface{}, error) {
		return c.fetch(ctx, ticker, limit)
	})
	if err != nil {
		return nil, err
	}
	return headlines, nil
}

func (c *Client) fetch(ctx context.Context, ticker string, limit int) ([]contracts.Headline, error) {
	params := url.Values{}
	params.Set("q", ticker)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(limit))
	fullURL := fmt.Sprintf("%s/v2/everything?%s", c.baseURL, params.Encode())

	var resp everythingResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch headlines %s: %w", ticker, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi %s: %s", resp.Code, resp.Message)
	}

	headlines := make([]contracts.Headline, 0, limit)
	for _, a := range resp.Articles {
		if len(headlines) == limit {
			break
		}
		publishedAt, _ := time.Parse(time.RFC3339, a.PublishedAt) // 파싱 실패 시 zero time
		headlines = append(headlines, contracts.Headline{
			Title:       stripHTML(a.Title),
			Description: stripHTML(a.Description),
			PublishedAt: publishedAt,
			Source:      a.Source.Name,
			URL:         a.URL,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(headlines),
	}).Debug("fetched headlines")
	return headlines, nil
}

// stripHTML returns the visible text of s with whitespace collapsed
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
