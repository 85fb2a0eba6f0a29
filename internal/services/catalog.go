package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/denmor86/ya-reseller/internal/cache"
	"github.com/denmor86/ya-reseller/internal/client"
	"github.com/denmor86/ya-reseller/internal/enrichment"
	"github.com/denmor86/ya-reseller/internal/models"
	"github.com/denmor86/ya-reseller/internal/validators"
)

type CatalogService interface {
	Search(ctx context.Context, req models.SearchRequest, headers client.HeaderOverrides) (json.RawMessage, error)
	Details(ctx context.Context, partNumber string, headers client.HeaderOverrides) (json.RawMessage, error)
	PriceAndAvailability(ctx context.Context, req models.PriceAvailabilityRequest, headers client.HeaderOverrides) (json.RawMessage, error)
}

// CacheTTL - время жизни закэшированных ответов каталога
type CacheTTL struct {
	Search time.Duration
	Detail time.Duration
	Price  time.Duration
}

func DefaultCacheTTL() CacheTTL {
	return CacheTTL{
		Search: 5 * time.Minute,
		Detail: 10 * time.Minute,
		Price:  2 * time.Minute,
	}
}

type Catalog struct {
	gateway Requester
	cache   cache.Store
	ttl     CacheTTL
	policy  *enrichment.Policy
}

// NewCatalog - store == nil отключает кэширование
func NewCatalog(gateway Requester, store cache.Store, ttl CacheTTL, policy *enrichment.Policy) *Catalog {
	return &Catalog{
		gateway: gateway,
		cache:   store,
		ttl:     ttl,
		policy:  policy,
	}
}

// cacheKey - цены зависят от покупателя, поэтому идентификация входит в ключ
func cacheKey(prefix string, params any, headers client.HeaderOverrides) string {
	return cache.Key(prefix, struct {
		Params   any    `json:"p"`
		Customer string `json:"c,omitempty"`
		Country  string `json:"cc,omitempty"`
	}{params, headers.CustomerNumber, headers.CountryCode})
}

// Search - поиск по каталогу, ответ апстрима возвращается без изменений
func (s *Catalog) Search(ctx context.Context, req models.SearchRequest, headers client.HeaderOverrides) (json.RawMessage, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	key := cacheKey("search", req, headers)
	return cache.Remember(ctx, s.cache, key, s.ttl.Search, []string{cache.TagCatalog}, func(ctx context.Context) ([]byte, error) {
		var body json.RawMessage
		err := s.gateway.Do(ctx, http.MethodGet, resellerAPI+"/catalog", client.RequestOptions{
			Query:   req.Query(),
			Headers: headers,
		}, &body)
		return body, err
	})
}

// Details - карточка товара
func (s *Catalog) Details(ctx context.Context, partNumber string, headers client.HeaderOverrides) (json.RawMessage, error) {
	if !validators.PartNumber(partNumber) {
		return nil, fmt.Errorf("%w: malformed part number %q", ErrInvalidRequest, partNumber)
	}
	key := cacheKey("detail", partNumber, headers)
	return cache.Remember(ctx, s.cache, key, s.ttl.Detail, []string{cache.TagProduct, cache.TagCatalog}, func(ctx context.Context) ([]byte, error) {
		var body json.RawMessage
		err := s.gateway.Do(ctx, http.MethodGet, resellerAPI+"/catalog/details/"+url.PathEscape(partNumber), client.RequestOptions{
			Headers: headers,
		}, &body)
		return body, err
	})
}

// PriceAndAvailability - цена и наличие по списку товаров.
// В кэше хранится ответ апстрима, дозаполнение выполняется при каждом чтении.
// В боевом окружении ответ возвращается без изменений.
func (s *Catalog) PriceAndAvailability(ctx context.Context, req models.PriceAvailabilityRequest, headers client.HeaderOverrides) (json.RawMessage, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	key := cacheKey("pa", req.Products, headers)
	raw, err := cache.Remember(ctx, s.cache, key, s.ttl.Price, []string{cache.TagPricing}, func(ctx context.Context) ([]byte, error) {
		var body json.RawMessage
		err := s.gateway.Do(ctx, http.MethodPost, resellerAPI+"/catalog/priceandavailability", client.RequestOptions{
			Query: map[string]any{
				"includeAvailability": true,
				"includePricing":      true,
			},
			Body:    req,
			Headers: headers,
		}, &body)
		return body, err
	})
	if err != nil {
		return nil, err
	}

	return s.policy.Enrich(raw), nil
}
