package handlers

import (
	"net/http"

	"github.com/denmor86/ya-reseller/internal/helpers"
	"github.com/denmor86/ya-reseller/internal/models"
	"github.com/denmor86/ya-reseller/internal/services"
	"github.com/go-chi/chi/v5"
)

// CreateOrderHandler - создание заказа
func CreateOrderHandler(s services.OrdersService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.OrderCreateRequest
		if err := decodeBody(r, &req); err != nil {
			WriteError(w, "Invalid order", err)
			return
		}
		body, err := s.Create(r.Context(), req, helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to create order", err)
			return
		}
		writeRaw(w, http.StatusCreated, body)
	})
}

// SearchOrdersHandler - поиск заказов
func SearchOrdersHandler(s services.OrdersService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNumber, pageSize, err := paging(r)
		if err != nil {
			WriteError(w, "Invalid search parameters", err)
			return
		}
		q := r.URL.Query()
		params := models.OrderSearchParams{
			CustomerOrderNumber: q.Get("customerOrderNumber"),
			OrderStatus:         q.Get("orderStatus"),
			FromDate:            q.Get("fromDate"),
			ToDate:              q.Get("toDate"),
			PageNumber:          pageNumber,
			PageSize:            pageSize,
		}
		body, err := s.Search(r.Context(), params, helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to search orders", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

// GetOrderHandler - детали заказа
func GetOrderHandler(s services.OrdersService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := s.Get(r.Context(), chi.URLParam(r, "orderNumber"), helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to fetch order", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

// ModifyOrderHandler - изменение заказа
func ModifyOrderHandler(s services.OrdersService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.OrderModifyRequest
		if err := decodeBody(r, &req); err != nil {
			WriteError(w, "Invalid order modification", err)
			return
		}
		body, err := s.Modify(r.Context(), chi.URLParam(r, "orderNumber"), req, helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to modify order", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

// CancelOrderHandler - отмена заказа
func CancelOrderHandler(s services.OrdersService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := s.Cancel(r.Context(), chi.URLParam(r, "orderNumber"), helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to cancel order", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

func paging(r *http.Request) (int, int, error) {
	pageNumber, err := helpers.QueryInt(r, "pageNumber")
	if err != nil {
		return 0, 0, invalid(err)
	}
	pageSize, err := helpers.QueryInt(r, "pageSize")
	if err != nil {
		return 0, 0, invalid(err)
	}
	return pageNumber, pageSize, nil
}
