package handlers

import (
	"net/http"

	"github.com/denmor86/ya-reseller/internal/helpers"
	"github.com/denmor86/ya-reseller/internal/models"
	"github.com/denmor86/ya-reseller/internal/services"
	"github.com/go-chi/chi/v5"
)

// SearchProductsHandler - поиск по каталогу
func SearchProductsHandler(s services.CatalogService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNumber, pageSize, err := paging(r)
		if err != nil {
			WriteError(w, "Invalid search parameters", err)
			return
		}
		q := r.URL.Query()
		req := models.SearchRequest{
			Keyword:    q.Get("keyword"),
			Category:   q.Get("category"),
			Brand:      q.Get("brand"),
			PageNumber: pageNumber,
			PageSize:   pageSize,
			SortBy:     q.Get("sortBy"),
			SortOrder:  q.Get("sortOrder"),
		}

		body, err := s.Search(r.Context(), req, helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to search products", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

// ProductDetailsHandler - карточка товара
func ProductDetailsHandler(s services.CatalogService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := s.Details(r.Context(), chi.URLParam(r, "partNumber"), helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to fetch product details", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

// PriceAvailabilityHandler - цена и наличие, вне боевого окружения с дозаполнением
func PriceAvailabilityHandler(s services.CatalogService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.PriceAvailabilityRequest
		if err := decodeBody(r, &req); err != nil {
			WriteError(w, "Invalid price and availability request", err)
			return
		}

		body, err := s.PriceAndAvailability(r.Context(), req, helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to fetch price and availability", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}
