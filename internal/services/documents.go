package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/denmor86/ya-reseller/internal/client"
	"github.com/denmor86/ya-reseller/internal/models"
)

type QuotesService interface {
	Search(ctx context.Context, params models.QuoteSearchParams, headers client.HeaderOverrides) (json.RawMessage, error)
	Get(ctx context.Context, quoteNumber string, headers client.HeaderOverrides) (json.RawMessage, error)
}

type ReturnsService interface {
	Search(ctx context.Context, params models.ReturnSearchParams, headers client.HeaderOverrides) (json.RawMessage, error)
	Get(ctx context.Context, caseRequestNumber string, headers client.HeaderOverrides) (json.RawMessage, error)
}

type InvoicesService interface {
	Search(ctx context.Context, params models.InvoiceSearchParams, headers client.HeaderOverrides) (json.RawMessage, error)
	Get(ctx context.Context, invoiceNumber string, headers client.HeaderOverrides) (json.RawMessage, error)
}

// documents - поиск и просмотр документов одного вида
type documents struct {
	gateway    Requester
	resource   string
	searchPath string
}

func (d documents) search(ctx context.Context, params interface{ Query() map[string]any }, headers client.HeaderOverrides) (json.RawMessage, error) {
	if err := validateStruct(params); err != nil {
		return nil, err
	}
	var body json.RawMessage
	err := d.gateway.Do(ctx, http.MethodGet, resellerAPI+d.searchPath, client.RequestOptions{
		Query:   params.Query(),
		Headers: headers,
	}, &body)
	return body, err
}

func (d documents) get(ctx context.Context, number string, headers client.HeaderOverrides) (json.RawMessage, error) {
	path, err := documentPath(d.resource, number)
	if err != nil {
		return nil, err
	}
	var body json.RawMessage
	err = d.gateway.Do(ctx, http.MethodGet, path, client.RequestOptions{Headers: headers}, &body)
	return body, err
}

type Quotes struct {
	documents
}

func NewQuotes(gateway Requester) *Quotes {
	return &Quotes{documents{gateway: gateway, resource: "/quotes", searchPath: "/quotes/search"}}
}

func (s *Quotes) Search(ctx context.Context, params models.QuoteSearchParams, headers client.HeaderOverrides) (json.RawMessage, error) {
	return s.search(ctx, params, headers)
}

func (s *Quotes) Get(ctx context.Context, quoteNumber string, headers client.HeaderOverrides) (json.RawMessage, error) {
	return s.get(ctx, quoteNumber, headers)
}

type Returns struct {
	documents
}

func NewReturns(gateway Requester) *Returns {
	return &Returns{documents{gateway: gateway, resource: "/returns", searchPath: "/returns/search"}}
}

func (s *Returns) Search(ctx context.Context, params models.ReturnSearchParams, headers client.HeaderOverrides) (json.RawMessage, error) {
	return s.search(ctx, params, headers)
}

func (s *Returns) Get(ctx context.Context, caseRequestNumber string, headers client.HeaderOverrides) (json.RawMessage, error) {
	return s.get(ctx, caseRequestNumber, headers)
}

// Invoices - поиск счетов выполняется по корню ресурса
type Invoices struct {
	documents
}

func NewInvoices(gateway Requester) *Invoices {
	return &Invoices{documents{gateway: gateway, resource: "/invoices", searchPath: "/invoices"}}
}

func (s *Invoices) Search(ctx context.Context, params models.InvoiceSearchParams, headers client.HeaderOverrides) (json.RawMessage, error) {
	return s.search(ctx, params, headers)
}

func (s *Invoices) Get(ctx context.Context, invoiceNumber string, headers client.HeaderOverrides) (json.RawMessage, error) {
	return s.get(ctx, invoiceNumber, headers)
}
