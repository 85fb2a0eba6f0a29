package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/denmor86/ya-reseller/internal/client"
	"github.com/denmor86/ya-reseller/internal/logger"
	"github.com/denmor86/ya-reseller/internal/models"
	"github.com/denmor86/ya-reseller/internal/services"
)

// ErrorStatus - HTTP статус ответа для ошибки сервиса
func ErrorStatus(err error) int {
	var (
		upstreamErr  *client.UpstreamError
		timeoutErr   *client.TimeoutError
		rateLimitErr *client.RateLimitError
	)
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &rateLimitErr):
		return http.StatusTooManyRequests
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &upstreamErr):
		if upstreamErr.Status >= 400 && upstreamErr.Status <= 599 {
			return upstreamErr.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, client.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, client.ErrUpstreamUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError - ответ {error, message} со статусом, соответствующим ошибке
func WriteError(w http.ResponseWriter, operation string, err error) {
	status := ErrorStatus(err)
	response := models.ErrorResponse{
		Error:   operation,
		Message: err.Error(),
		Status:  status,
	}

	var upstreamErr *client.UpstreamError
	if errors.As(err, &upstreamErr) {
		response.Message = upstreamErr.Message
		response.Details = upstreamErr.Raw
	}
	var rateLimitErr *client.RateLimitError
	if errors.As(err, &rateLimitErr) {
		w.Header().Set("Retry-After", strconv.Itoa(int(rateLimitErr.RetryAfter.Seconds()+0.5)))
	}

	if status >= http.StatusInternalServerError {
		logger.Errorw(operation, "status", status, "error", err)
	} else {
		logger.Warnw(operation, "status", status, "error", err)
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorw("Error to encode response", "error", err)
	}
}

// writeRaw - ответ апстрима без изменений
func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	if len(body) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Errorw("Error to write response", "error", err)
	}
}

// decodeBody - разбор JSON тела запроса, неизвестные поля не допускаются
func decodeBody(r *http.Request, out any) error {
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Errorw("Error to close body", "error", err)
		}
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return invalid(err)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", services.ErrInvalidRequest, err)
}
