package router

import (
	"github.com/denmor86/ya-reseller/internal/cache"
	"github.com/denmor86/ya-reseller/internal/network/handlers"
	"github.com/denmor86/ya-reseller/internal/network/middleware"
	"github.com/denmor86/ya-reseller/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Catalog  services.CatalogService
	Orders   services.OrdersService
	Quotes   services.QuotesService
	Returns  services.ReturnsService
	Invoices services.InvoicesService
	Cache    cache.Store
	// AdminAuth - проверка JWT для служебных маршрутов
	AdminAuth *jwtauth.JWTAuth
}

// NewAdminAuth - HS256 ключ для служебных маршрутов
func NewAdminAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

func (router *Router) HandleRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/health", handlers.HealthHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LogHandle)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.SearchProductsHandler(router.Catalog))
			r.Post("/price-availability", handlers.PriceAvailabilityHandler(router.Catalog))
			r.Get("/{partNumber}", handlers.ProductDetailsHandler(router.Catalog))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", handlers.CreateOrderHandler(router.Orders))
			r.Get("/", handlers.SearchOrdersHandler(router.Orders))
			r.Get("/{orderNumber}", handlers.GetOrderHandler(router.Orders))
			r.Put("/{orderNumber}", handlers.ModifyOrderHandler(router.Orders))
			r.Delete("/{orderNumber}", handlers.CancelOrderHandler(router.Orders))
		})
		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", handlers.SearchQuotesHandler(router.Quotes))
			r.Get("/{quoteNumber}", handlers.GetQuoteHandler(router.Quotes))
		})
		r.Route("/returns", func(r chi.Router) {
			r.Get("/", handlers.SearchReturnsHandler(router.Returns))
			r.Get("/{caseRequestNumber}", handlers.GetReturnHandler(router.Returns))
		})
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", handlers.SearchInvoicesHandler(router.Invoices))
			r.Get("/{invoiceNumber}", handlers.GetInvoiceHandler(router.Invoices))
		})
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(router.AdminAuth))
			r.Use(jwtauth.Authenticator(router.AdminAuth))
			r.Post("/admin/cache/invalidate", handlers.InvalidateCacheHandler(router.Cache))
		})
	})
	return r
}
