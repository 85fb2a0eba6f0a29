package handlers

import (
	"net/http"

	"github.com/denmor86/ya-reseller/internal/helpers"
	"github.com/denmor86/ya-reseller/internal/models"
	"github.com/denmor86/ya-reseller/internal/services"
	"github.com/go-chi/chi/v5"
)

// SearchQuotesHandler - поиск коммерческих предложений
func SearchQuotesHandler(s services.QuotesService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNumber, pageSize, err := paging(r)
		if err != nil {
			WriteError(w, "Invalid search parameters", err)
			return
		}
		q := r.URL.Query()
		body, err := s.Search(r.Context(), models.QuoteSearchParams{
			QuoteNumber: q.Get("quoteNumber"),
			QuoteName:   q.Get("quoteName"),
			Status:      q.Get("status"),
			PageNumber:  pageNumber,
			PageSize:    pageSize,
		}, helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to search quotes", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

func GetQuoteHandler(s services.QuotesService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := s.Get(r.Context(), chi.URLParam(r, "quoteNumber"), helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to fetch quote", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

// SearchReturnsHandler - поиск возвратов
func SearchReturnsHandler(s services.ReturnsService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNumber, pageSize, err := paging(r)
		if err != nil {
			WriteError(w, "Invalid search parameters", err)
			return
		}
		q := r.URL.Query()
		body, err := s.Search(r.Context(), models.ReturnSearchParams{
			CaseRequestNumber: q.Get("caseRequestNumber"),
			InvoiceNumber:     q.Get("invoiceNumber"),
			Status:            q.Get("status"),
			PageNumber:        pageNumber,
			PageSize:          pageSize,
		}, helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to search returns", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

func GetReturnHandler(s services.ReturnsService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := s.Get(r.Context(), chi.URLParam(r, "caseRequestNumber"), helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to fetch return", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

// SearchInvoicesHandler - поиск счетов
func SearchInvoicesHandler(s services.InvoicesService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNumber, pageSize, err := paging(r)
		if err != nil {
			WriteError(w, "Invalid search parameters", err)
			return
		}
		q := r.URL.Query()
		body, err := s.Search(r.Context(), models.InvoiceSearchParams{
			InvoiceNumber: q.Get("invoiceNumber"),
			OrderNumber:   q.Get("orderNumber"),
			FromDate:      q.Get("fromDate"),
			ToDate:        q.Get("toDate"),
			PageNumber:    pageNumber,
			PageSize:      pageSize,
		}, helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to search invoices", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}

func GetInvoiceHandler(s services.InvoicesService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := s.Get(r.Context(), chi.URLParam(r, "invoiceNumber"), helpers.OverridesFromRequest(r))
		if err != nil {
			WriteError(w, "Failed to fetch invoice", err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	})
}
