package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// GenericErrorMessage - сообщение для ответов апстрима, из которых не удалось извлечь текст ошибки
const GenericErrorMessage = "API request failed"

var (
	// ErrUpstreamUnavailable - circuit breaker разомкнут, запросы к апстриму временно не выполняются
	ErrUpstreamUnavailable = errors.New("distributor api temporarily unavailable")
	// ErrUpstreamUnreachable - ошибка транспорта (DNS, соединение, TLS)
	ErrUpstreamUnreachable = errors.New("distributor api unreachable")
)

// UpstreamError - ответ апстрима с кодом вне диапазона 2xx или некорректное тело успешного ответа
type UpstreamError struct {
	Status  int
	Message string
	Raw     any
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AuthError - токен не получен: OAuth сервер недоступен или отклонил учётные данные
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("authentication failed with status %d: %s", e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %v", e.Err)
	}
	return "authentication failed: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TimeoutError - запрос не уложился в отведённое время, HTTP статуса нет
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("upstream request timed out after %s", e.Timeout)
	}
	return "upstream request timed out"
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// RateLimitError - апстрим ответил 429, исходящие запросы приостановлены
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}

// NewUpstreamError - нормализация тела ответа с ошибкой.
// Массив объектов: сообщение берётся из поля message первого элемента, массив сохраняется целиком.
// Любая другая форма: общее сообщение, разобранное тело (или исходный текст) сохраняется для диагностики.
func NewUpstreamError(status int, body []byte) *UpstreamError {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		var raw any
		if len(body) > 0 {
			raw = string(body)
		}
		return &UpstreamError{Status: status, Message: GenericErrorMessage, Raw: raw}
	}
	if items, ok := parsed.([]any); ok && len(items) > 0 {
		if first, ok := items[0].(map[string]any); ok {
			if message, ok := first["message"].(string); ok && message != "" {
				return &UpstreamError{Status: status, Message: message, Raw: items}
			}
		}
	}
	return &UpstreamError{Status: status, Message: GenericErrorMessage, Raw: parsed}
}

// isBreakerFailure - какие ошибки считаются отказом апстрима для circuit breaker.
// Ответы 4xx означают, что апстрим жив, их не учитываем.
func isBreakerFailure(err error) bool {
	if err == nil {
		return false
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Status >= http.StatusInternalServerError
	}
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrUpstreamUnreachable)
}

// isRetryable - повторяем только идемпотентные запросы при сбоях транспорта и ответах шлюзов
func isRetryable(err error) bool {
	if errors.Is(err, ErrUpstreamUnreachable) {
		return true
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		switch upstreamErr.Status {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
