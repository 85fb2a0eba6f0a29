package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/denmor86/ya-reseller/internal/client"
	"github.com/denmor86/ya-reseller/internal/models"
)

type OrdersService interface {
	Create(ctx context.Context, req models.OrderCreateRequest, headers client.HeaderOverrides) (json.RawMessage, error)
	Get(ctx context.Context, orderNumber string, headers client.HeaderOverrides) (json.RawMessage, error)
	Modify(ctx context.Context, orderNumber string, req models.OrderModifyRequest, headers client.HeaderOverrides) (json.RawMessage, error)
	Cancel(ctx context.Context, orderNumber string, headers client.HeaderOverrides) (json.RawMessage, error)
	Search(ctx context.Context, params models.OrderSearchParams, headers client.HeaderOverrides) (json.RawMessage, error)
}

// Orders - заказы у дистрибьютора. Ответы не кэшируются.
type Orders struct {
	gateway Requester
}

func NewOrders(gateway Requester) *Orders {
	return &Orders{gateway: gateway}
}

// Create - создание заказа
func (s *Orders) Create(ctx context.Context, req models.OrderCreateRequest, headers client.HeaderOverrides) (json.RawMessage, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var body json.RawMessage
	err := s.gateway.Do(ctx, http.MethodPost, resellerAPI+"/orders", client.RequestOptions{
		Body:    req,
		Headers: headers,
	}, &body)
	return body, err
}

func (s *Orders) Get(ctx context.Context, orderNumber string, headers client.HeaderOverrides) (json.RawMessage, error) {
	path, err := documentPath("/orders", orderNumber)
	if err != nil {
		return nil, err
	}
	var body json.RawMessage
	err = s.gateway.Do(ctx, http.MethodGet, path, client.RequestOptions{Headers: headers}, &body)
	return body, err
}

func (s *Orders) Modify(ctx context.Context, orderNumber string, req models.OrderModifyRequest, headers client.HeaderOverrides) (json.RawMessage, error) {
	path, err := documentPath("/orders", orderNumber)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var body json.RawMessage
	err = s.gateway.Do(ctx, http.MethodPut, path, client.RequestOptions{
		Body:    req,
		Headers: headers,
	}, &body)
	return body, err
}

// Cancel - отмена заказа, апстрим может ответить 204 без тела
func (s *Orders) Cancel(ctx context.Context, orderNumber string, headers client.HeaderOverrides) (json.RawMessage, error) {
	path, err := documentPath("/orders", orderNumber)
	if err != nil {
		return nil, err
	}
	var body json.RawMessage
	err = s.gateway.Do(ctx, http.MethodDelete, path, client.RequestOptions{Headers: headers}, &body)
	return body, err
}

func (s *Orders) Search(ctx context.Context, params models.OrderSearchParams, headers client.HeaderOverrides) (json.RawMessage, error) {
	if err := validateStruct(params); err != nil {
		return nil, err
	}
	var body json.RawMessage
	err := s.gateway.Do(ctx, http.MethodGet, resellerAPI+"/orders/search", client.RequestOptions{
		Query:   params.Query(),
		Headers: headers,
	}, &body)
	return body, err
}
