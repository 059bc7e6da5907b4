package fx

import (
	"context"
	"log"

	"github.com/newsly/newsly/internal/admin"
	"github.com/newsly/newsly/internal/budget"
	"github.com/newsly/newsly/internal/cache"
	"github.com/newsly/newsly/internal/config"
	"github.com/newsly/newsly/internal/core"
	"github.com/newsly/newsly/internal/gateway"
	"github.com/newsly/newsly/internal/news"
	"github.com/newsly/newsly/internal/newsapi"
	"github.com/newsly/newsly/internal/personalize"
	"github.com/newsly/newsly/internal/scraper"
	"github.com/newsly/newsly/internal/store"
	"github.com/newsly/newsly/internal/token"
	"github.com/newsly/newsly/internal/worker"
	"go.uber.org/fx"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// StoreModule provides database connectivity
var StoreModule = fx.Module("store",
	fx.Provide(
		NewPostgresStore,
		func(s *store.PostgresStore) store.Store { return s },
	),
)

// TokenModule provides JWT token management
var TokenModule = fx.Module("token",
	fx.Provide(NewTokenManager),
)

// GatewayModule provides the news gateway with its cache, budget tracker
// and upstream client
var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewNewsProvider,
		NewCache,
		NewBudgetTracker,
		NewAllowList,
		NewScraper,
		NewGateway,
	),
)

// PersonalizeModule provides the personalized feed resolver
var PersonalizeModule = fx.Module("personalize",
	fx.Provide(NewResolver),
)

// CoreModule provides business logic cores
var CoreModule = fx.Module("core",
	fx.Provide(core.NewAuthCore),
)

// WorkerModule provides the cache sweep job
var WorkerModule = fx.Module("worker",
	fx.Provide(NewSweeper),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewPostgresStore creates database connection
func NewPostgresStore(cfg config.Config) (*store.PostgresStore, error) {
	ctx := context.Background()
	st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Printf("[FX] PostgresStore initialized")
	return st, nil
}

// NewTokenManager creates JWT token manager
func NewTokenManager(cfg config.Config) *token.Manager {
	tm := token.NewManager(cfg.JWTSecret)
	log.Printf("[FX] TokenManager initialized")
	return tm
}

// NewNewsProvider creates the upstream news API client
func NewNewsProvider(cfg config.Config) news.Provider {
	client := newsapi.NewClient(cfg.NewsAPIKey)
	if cfg.NewsAPIBaseURL != "" {
		client.SetBaseURL(cfg.NewsAPIBaseURL)
	}
	log.Printf("[FX] NewsProvider initialized (%s)", client.Name())
	return client
}

// NewCache creates the shared response cache
func NewCache() *cache.Cache {
	log.Printf("[FX] ResponseCache initialized")
	return cache.New()
}

// NewBudgetTracker creates the process-wide daily budget tracker
func NewBudgetTracker(cfg config.Config) *budget.Tracker {
	t := budget.New(cfg.DailyCallLimit)
	log.Printf("[FX] BudgetTracker initialized (ceiling=%d calls/day)", cfg.DailyCallLimit)
	return t
}

// NewAllowList creates the admin allow-list
func NewAllowList(cfg config.Config) *admin.AllowList {
	al := admin.NewAllowList(cfg.AdminEmails)
	if al.Configured() {
		log.Printf("[FX] Admin allow-list configured (%d emails)", len(cfg.AdminEmails))
	} else {
		log.Printf("[FX] Admin allow-list empty, cache clear is permissive")
	}
	return al
}

// NewScraper creates the article body scraper
func NewScraper() *scraper.Scraper {
	return scraper.NewScraper()
}

// NewGateway wires the gateway orchestrator
func NewGateway(provider news.Provider, c *cache.Cache, b *budget.Tracker, al *admin.AllowList, sc *scraper.Scraper, cfg config.Config) *gateway.Gateway {
	g := gateway.New(provider, c, b, al, sc, gateway.TTLs{
		Headlines: cfg.HeadlinesTTL,
		Search:    cfg.SearchTTL,
		Article:   cfg.ArticleTTL,
	})
	log.Printf("[FX] Gateway initialized")
	return g
}

// NewResolver wires the personalization resolver
func NewResolver(g *gateway.Gateway, st store.Store) *personalize.Resolver {
	r := personalize.NewResolver(g, st)
	log.Printf("[FX] PersonalizeResolver initialized")
	return r
}

// NewSweeper wires the cache sweep job
func NewSweeper(c *cache.Cache, cfg config.Config) *worker.Sweeper {
	return worker.NewSweeper(c, cfg.SweepSpec)
}
