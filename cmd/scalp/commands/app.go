package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wonny/scalpdesk/internal/evaluator"
	"github.com/wonny/scalpdesk/internal/external/newsapi"
	"github.com/wonny/scalpdesk/internal/external/yahoo"
	"github.com/wonny/scalpdesk/internal/features"
	"github.com/wonny/scalpdesk/internal/journal"
	"github.com/wonny/scalpdesk/internal/regime"
	"github.com/wonny/scalpdesk/internal/scoring"
	"github.com/wonny/scalpdesk/internal/sentiment"
	"github.com/wonny/scalpdesk/internal/session"
	"github.com/wonny/scalpdesk/internal/strategyconfig"
	"github.com/wonny/scalpdesk/internal/watchlist"
	"github.com/wonny/scalpdesk/pkg/config"
	"github.com/wonny/scalpdesk/pkg/database"
	"github.com/wonny/scalpdesk/pkg/httputil"
	"github.com/wonny/scalpdesk/pkg/logger"
	"github.com/wonny/scalpdesk/pkg/metrics"
	"github.com/wonny/scalpdesk/pkg/redis"
)

// app holds every wired component of the desk
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategyconfig.Config
	version  string

	db    *database.DB
	redis *redis.Client

	registry *prometheus.Registry
	metrics  *metrics.Recorder

	clock     *session.Clock
	journal   journal.Journal
	evaluator *evaluator.Evaluator
	runner    *evaluator.Runner
}

// newApp loads config and strategy, connects storage and wires the evaluator
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if strategyFile != "" {
		cfg.StrategyFile = strategyFile
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load strategy
	strategy, _, err := strategyconfig.LoadOrDefault(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	for _, w := range strategyconfig.Warn(strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	a := &app{cfg: cfg, log: log, strategy: strategy}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg, log := a.cfg, a.log

	// 4. Core packages from the strategy
	schedule, err := a.strategy.SessionSchedule()
	if err != nil {
		return fmt.Errorf("session schedule: %w", err)
	}
	scoringCfg, err := a.strategy.ScoringConfig()
	if err != nil {
		return fmt.Errorf("scoring config: %w", err)
	}
	a.version = scoringCfg.StrategyVersion
	a.clock = session.New(schedule)

	extractor := features.New(a.strategy.FeaturesConfig())

	// 5. Metrics
	if cfg.MetricsEnabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a.metrics = metrics.New(a.registry)
	}

	// 6. Redis (optional)
	a.redis, err = redis.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	cache := redis.NewCache(a.redis, "scalpdesk")
	limiter := redis.NewRateLimiter(a.redis, "scalpdesk")

	// 7. Journal
	if cfg.Journal.Backend == "postgres" {
		a.db, err = database.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		log.Info("Connected to database")
	}
	a.journal, err = journal.Open(ctx, cfg.Journal, a.pool(), log)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	// 8. External collaborators (each owns its HTTP client because headers differ)
	market := yahoo.NewClient(cfg.Market, httputil.New(log), cache, extractor.BenchmarkTrend, a.clock.Location(), log)
	news := newsapi.NewProvider(cfg.News, httputil.New(log), cache, limiter, log)
	source := watchlist.NewCSVSource(cfg.Watchlist.Path, log)

	// 9. Evaluator + runner
	evalCfg := evaluator.DefaultConfig()
	evalCfg.Workers = cfg.Evaluation.Workers
	evalCfg.FetchTimeout = cfg.Evaluation.FetchTimeout
	evalCfg.NewsLimit = cfg.News.Limit
	evalCfg.BenchmarkSymbol = cfg.Market.BenchmarkSymbol

	a.evaluator = evaluator.New(
		evalCfg,
		a.clock,
		regime.New(a.strategy.RegimeConfig()),
		extractor,
		sentiment.New(a.strategy.SentimentConfig()),
		scoring.New(scoringCfg),
		market,
		news,
		a.metrics,
		log,
	)
	a.runner = evaluator.NewRunner(a.evaluator, source, a.journal, a.metrics, log)

	log.WithFields(map[string]interface{}{
		"strategy": a.strategy.Meta.StrategyID,
		"version":  a.version,
		"journal":  cfg.Journal.Backend,
		"redis":    a.redis.Enabled(),
		"metrics":  cfg.MetricsEnabled,
	}).Info("Scalp desk wired")

	return nil
}

// gatherer returns the metrics registry, nil when metrics are disabled
func (a *app) gatherer() prometheus.Gatherer {
	if a.registry == nil {
		return nil
	}
	return a.registry
}

func (a *app) pool() *pgxpool.Pool {
	if a.db == nil {
		return nil
	}
	return a.db.Pool
}

// Close releases storage connections
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
