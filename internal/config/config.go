package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Arguments struct {
	ListenAddr           string        `env:"SERVER_ADDRESS" envDefault:"localhost:8080"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	Environment          string        `env:"APP_ENV" envDefault:"development"`
	ClientID             string        `env:"IM_CLIENT_ID" envDefault:""`
	ClientSecret         string        `env:"IM_CLIENT_SECRET" envDefault:""`
	CustomerNumber       string        `env:"IM_CUSTOMER_NUMBER" envDefault:""`
	CountryCode          string        `env:"IM_COUNTRY_CODE" envDefault:"US"`
	SenderID             string        `env:"IM_SENDER_ID" envDefault:""`
	ProductionURL        string        `env:"IM_API_BASE_URL" envDefault:"https://api.ingrammicro.com:443"`
	SandboxURL           string        `env:"IM_SANDBOX_BASE_URL" envDefault:"https://api.ingrammicro.com:443/sandbox"`
	OAuthURL             string        `env:"IM_OAUTH_URL" envDefault:"https://api.ingrammicro.com:443"`
	TokenExpiryMargin    time.Duration `env:"IM_TOKEN_EXPIRY_MARGIN" envDefault:"5m"`
	RequestTimeout       time.Duration `env:"IM_REQUEST_TIMEOUT" envDefault:"10s"`
	RetryMax             int           `env:"IM_RETRY_MAX" envDefault:"2"`
	RateLimit            int           `env:"IM_RATE_LIMIT" envDefault:"0"`
	DemoPricing          bool          `env:"DEMO_PRICING" envDefault:"false"`
	CacheBackend         string        `env:"CACHE_BACKEND" envDefault:"memory"`
	RedisAddr            string        `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword        string        `env:"REDIS_PASSWORD" envDefault:""`
	SearchTTL            time.Duration `env:"CACHE_SEARCH_TTL" envDefault:"5m"`
	DetailTTL            time.Duration `env:"CACHE_DETAIL_TTL" envDefault:"10m"`
	PriceTTL             time.Duration `env:"CACHE_PRICE_TTL" envDefault:"2m"`
	AdminSecret          string        `env:"ADMIN_JWT_SECRET" envDefault:"secret"`
	TokenRefreshInterval time.Duration `env:"TOKEN_REFRESH_INTERVAL" envDefault:"1m"`
}

// ServerConfig модель настроек сервера
type ServerConfig struct {
	ListenAddr  string
	LogLevel    string
	AdminSecret string
}

// UpstreamConfig модель настроек работы с API дистрибьютора
type UpstreamConfig struct {
	Environment       string
	ClientID          string
	ClientSecret      string
	CustomerNumber    string
	CountryCode       string
	SenderID          string
	ProductionURL     string
	SandboxURL        string
	OAuthURL          string
	TokenExpiryMargin time.Duration
	RequestTimeout    time.Duration
	RetryMax          int
	RateLimit         int
	DemoPricing       bool
	RefreshInterval   time.Duration
}

// CacheConfig модель настроек кэша ответов
type CacheConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	SearchTTL     time.Duration
	DetailTTL     time.Duration
	PriceTTL      time.Duration
}

// Config модель настроек сервиса
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
}

// IsProduction - признак работы с боевым окружением дистрибьютора.
// Вычисляется один раз и используется как для выбора хоста, так и для политики обогащения.
func (c UpstreamConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// BaseURL - адрес API для текущего окружения
func (c UpstreamConfig) BaseURL() string {
	if c.IsProduction() {
		return strings.TrimRight(c.ProductionURL, "/")
	}
	return strings.TrimRight(c.SandboxURL, "/")
}

// NewConfig - загружает настройки из .env, переменных окружения и флагов командной строки
func NewConfig() Config {
	// .env не обязателен
	_ = godotenv.Load()

	config, err := Parse(os.Args[1:])
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %s", err.Error()))
	}
	return config
}

// Parse - разбор переменных окружения и аргументов. Флаги имеют приоритет над окружением.
func Parse(arguments []string) (Config, error) {
	var args Arguments
	if err := env.Parse(&args); err != nil {
		return Config{}, fmt.Errorf("failed to parse enviroment var: %w", err)
	}

	flags := pflag.NewFlagSet("reseller", pflag.ContinueOnError)
	var (
		server      = flags.StringP("server", "a", args.ListenAddr, "Server listen address in a form host:port.")
		logLevel    = flags.StringP("log_level", "l", args.LogLevel, "Log level.")
		environment = flags.StringP("env", "e", args.Environment, "Upstream environment: production or development.")
		backend     = flags.StringP("cache", "c", args.CacheBackend, "Response cache backend: memory or redis.")
		secret      = flags.StringP("secret", "s", args.AdminSecret, "Secret to admin JWT")
	)
	if err := flags.Parse(arguments); err != nil {
		return Config{}, err
	}

	config := Config{
		Server: ServerConfig{
			ListenAddr:  *server,
			LogLevel:    *logLevel,
			AdminSecret: *secret,
		},
		Upstream: UpstreamConfig{
			Environment:       *environment,
			ClientID:          args.ClientID,
			ClientSecret:      args.ClientSecret,
			CustomerNumber:    args.CustomerNumber,
			CountryCode:       args.CountryCode,
			SenderID:          args.SenderID,
			ProductionURL:     args.ProductionURL,
			SandboxURL:        args.SandboxURL,
			OAuthURL:          args.OAuthURL,
			TokenExpiryMargin: args.TokenExpiryMargin,
			RequestTimeout:    args.RequestTimeout,
			RetryMax:          args.RetryMax,
			RateLimit:         args.RateLimit,
			DemoPricing:       args.DemoPricing,
			RefreshInterval:   args.TokenRefreshInterval,
		},
		Cache: CacheConfig{
			Backend:       *backend,
			RedisAddr:     args.RedisAddr,
			RedisPassword: args.RedisPassword,
			SearchTTL:     args.SearchTTL,
			DetailTTL:     args.DetailTTL,
			PriceTTL:      args.PriceTTL,
		},
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate - проверка согласованности настроек
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Upstream.RetryMax < 0 {
		return fmt.Errorf("retry max must not be negative")
	}
	if c.Upstream.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.Upstream.TokenExpiryMargin < 0 {
		return fmt.Errorf("token expiry margin must not be negative")
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:  "localhost:8080",
			LogLevel:    "info",
			AdminSecret: "secret",
		},
		Upstream: UpstreamConfig{
			Environment:       EnvDevelopment,
			CountryCode:       "US",
			ProductionURL:     "https://api.ingrammicro.com:443",
			SandboxURL:        "https://api.ingrammicro.com:443/sandbox",
			OAuthURL:          "https://api.ingrammicro.com:443",
			TokenExpiryMargin: 5 * time.Minute,
			RequestTimeout:    10 * time.Second,
			RetryMax:          2,
			RefreshInterval:   time.Minute,
		},
		Cache: CacheConfig{
			Backend:   CacheBackendMemory,
			RedisAddr: "localhost:6379",
			SearchTTL: 5 * time.Minute,
			DetailTTL: 10 * time.Minute,
			PriceTTL:  2 * time.Minute,
		},
	}
}
