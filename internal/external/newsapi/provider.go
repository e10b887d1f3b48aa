package newsapi

import (
	"context"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/pkg/config"
	"github.com/wonny/scalpdesk/pkg/httputil"
	"github.com/wonny/scalpdesk/pkg/logger"
	"github.com/wonny/scalpdesk/pkg/redis"
)

// StubProvider returns no headlines. Used when no API key is configured.
type StubProvider struct{}

// Headlines always returns an empty list
func (StubProvider) Headlines(ctx context.Context, ticker string, limit int) ([]contracts.Headline, error) {
	return []contracts.Headline{}, nil
}

// NewProvider picks NewsAPI when a key is configured, the stub otherwise
func NewProvider(cfg config.NewsConfig, httpClient *httputil.Client, cache *redis.Cache, limiter *redis.RateLimiter, log *logger.Logger) contracts.NewsProvider {
	if cfg.APIKey == "" {
		log.WithField("module", "newsapi").Info("NEWS_API_KEY not set, using stub news provider")
		return StubProvider{}
	}
	return NewClient(cfg, httpClient, cache, limiter, log)
}
