package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/denmor86/ya-reseller/internal/cache"
	"github.com/denmor86/ya-reseller/internal/client"
	"github.com/denmor86/ya-reseller/internal/config"
	"github.com/denmor86/ya-reseller/internal/enrichment"
	"github.com/denmor86/ya-reseller/internal/logger"
	"github.com/denmor86/ya-reseller/internal/network/router"
	"github.com/denmor86/ya-reseller/internal/services"
	"github.com/denmor86/ya-reseller/internal/worker"
)

// App - собранные зависимости сервиса
type App struct {
	Config config.Config
	Tokens *client.TokenManager
	Cache  cache.Store
	Router *router.Router
}

// NewCache - хранилище ответов по настройкам
func NewCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		return cache.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	case config.CacheBackendMemory:
		return cache.NewMemoryStore(time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// New - сборка клиента API дистрибьютора, сервисов и маршрутизатора
func New(ctx context.Context, cfg config.Config, httpClient client.HTTPClient) (*App, error) {
	store, err := NewCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	upstream := cfg.Upstream
	tokens := client.NewTokenManager(upstream.OAuthURL, upstream.ClientID, upstream.ClientSecret, upstream.TokenExpiryMargin, httpClient)
	headers := client.NewHeaderBuilder(tokens, client.Identity{
		CustomerNumber: upstream.CustomerNumber,
		CountryCode:    upstream.CountryCode,
		SenderID:       upstream.SenderID,
	})
	gateway := client.NewGateway(upstream.BaseURL(), httpClient, headers,
		client.WithTimeout(upstream.RequestTimeout),
		client.WithRetries(upstream.RetryMax, 200*time.Millisecond),
		client.WithRateLimiter(client.NewRateLimiter(upstream.RateLimit)),
	)

	policy := enrichment.NewPolicy(upstream.IsProduction(), upstream.DemoPricing)
	ttl := services.CacheTTL{
		Search: cfg.Cache.SearchTTL,
		Detail: cfg.Cache.DetailTTL,
		Price:  cfg.Cache.PriceTTL,
	}

	return &App{
		Config: cfg,
		Tokens: tokens,
		Cache:  store,
		Router: &router.Router{
			Catalog:   services.NewCatalog(gateway, store, ttl, policy),
			Orders:    services.NewOrders(gateway),
			Quotes:    services.NewQuotes(gateway),
			Returns:   services.NewReturns(gateway),
			Invoices:  services.NewInvoices(gateway),
			Cache:     store,
			AdminAuth: router.NewAdminAuth(cfg.Server.AdminSecret),
		},
	}, nil
}

func Run(cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := New(ctx, cfg, &http.Client{})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Cache.Close(); err != nil {
			logger.Errorw("error close cache", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           app.Router.HandleRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Создание и запуск воркера
	var tokenWorker *worker.TokenWorker
	if cfg.Upstream.RefreshInterval > 0 {
		tokenWorker = worker.NewTokenWorker(app.Tokens, cfg.Upstream.RefreshInterval)
		tokenWorker.Start(ctx)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Infow("Starting server",
			"address", cfg.Server.ListenAddr,
			"environment", cfg.Upstream.Environment,
			"base_url", cfg.Upstream.BaseURL(),
			"cache", cfg.Cache.Backend,
			"demo_pricing", cfg.Upstream.DemoPricing,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("error listen server", "error", err)
			stop <- syscall.SIGTERM
		}
	}()

	<-stop
	logger.Info("Shutdown server")
	if tokenWorker != nil {
		tokenWorker.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("error shutdown server", "error", err)
	}
	logger.Info("Server stopped")
	return nil
}
