package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/denmor86/ya-reseller/internal/logger"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestOptions - параметры одного вызова апстрима
type RequestOptions struct {
	// Query - параметры строки запроса, nil и пустые строки отбрасываются
	Query map[string]any
	// Body - тело запроса, кодируется в JSON если задано
	Body    any
	Headers HeaderOverrides
}

// Gateway - единая точка исходящих вызовов API дистрибьютора
type Gateway struct {
	baseURL    string
	httpClient HTTPClient
	headers    *HeaderBuilder
	limiter    *RateLimiter
	breaker    *gobreaker.CircuitBreaker
	timeout    time.Duration
	retryMax   uint64
	retryBase  time.Duration
}

type Option func(*Gateway)

// WithTimeout - ограничение времени одного вызова (вместе с повторами)
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) { g.timeout = timeout }
}

// WithRetries - повторы идемпотентных GET при сбоях транспорта и 502/503/504
func WithRetries(max int, base time.Duration) Option {
	return func(g *Gateway) {
		if max < 0 {
			max = 0
		}
		if base <= 0 {
			base = 200 * time.Millisecond
		}
		g.retryMax = uint64(max)
		g.retryBase = base
	}
}

func WithRateLimiter(limiter *RateLimiter) Option {
	return func(g *Gateway) { g.limiter = limiter }
}

func WithBreaker(breaker *gobreaker.CircuitBreaker) Option {
	return func(g *Gateway) { g.breaker = breaker }
}

func NewGateway(baseURL string, client HTTPClient, headers *HeaderBuilder, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:    baseURL,
		httpClient: client,
		headers:    headers,
		limiter:    NewRateLimiter(0),
		breaker:    NewCircuitBreaker(),
		timeout:    10 * time.Second,
		retryBase:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewCircuitBreaker - размыкается после 5 подряд отказов апстрима, через 30 секунд пробует снова
func NewCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "distributor-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return !isBreakerFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

type response struct {
	status int
	body   []byte
}

// Do - выполняет запрос и декодирует успешный ответ в out (out == nil - тело игнорируется).
// Ошибки: *UpstreamError, *AuthError, *TimeoutError, *RateLimitError,
// ErrUpstreamUnavailable, ErrUpstreamUnreachable, context.Canceled.
func (g *Gateway) Do(ctx context.Context, method, path string, opts RequestOptions, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.execute(ctx, method, path, opts)
	if err != nil {
		return g.contextError(ctx, err)
	}
	return decodeBody(resp, out)
}

func (g *Gateway) execute(ctx context.Context, method, path string, opts RequestOptions) (*response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var retries uint64
	if method == http.MethodGet {
		retries = g.retryMax
	}
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(g.retryBase))

	var result *response
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		headers, err := g.headers.Build(ctx, opts.Headers)
		if err != nil {
			return err
		}
		out, err := g.breaker.Execute(func() (interface{}, error) {
			return g.send(ctx, method, path, opts, headers)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return ErrUpstreamUnavailable
			}
			if isRetryable(err) {
				logger.Warnw("Retrying upstream request", "method", method, "path", path, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		result = out.(*response)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (g *Gateway) send(ctx context.Context, method, path string, opts RequestOptions, headers http.Header) (*response, error) {
	target, err := g.buildURL(path, opts.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header = headers

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	upstreamLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			upstreamRequests.WithLabelValues(method, "timeout").Inc()
			return nil, ctx.Err()
		}
		upstreamRequests.WithLabelValues(method, "error").Inc()
		logger.Errorw("Upstream request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	// тело читаем целиком как текст: ошибки апстрима не всегда JSON
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	upstreamRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	logger.Debugw("Upstream response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"correlation_id", headers.Get(HeaderCorrelationID),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			retryAfter := ParseRetryAfter(resp.Header)
			logger.Warnw("Too many requests to distributor api", "retry_after", retryAfter)
			g.limiter.BlockFor(retryAfter)
		case http.StatusUnauthorized:
			g.headers.InvalidateToken()
		}
		return nil, NewUpstreamError(resp.StatusCode, raw)
	}
	return &response{status: resp.StatusCode, body: raw}, nil
}

func (g *Gateway) buildURL(path string, query map[string]any) (string, error) {
	target, err := url.Parse(g.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid upstream url: %w", err)
	}
	values := target.Query()
	for key, value := range query {
		// отбрасываются только отсутствующие значения, пустая строка передаётся
		v, ok := present(value)
		if !ok {
			continue
		}
		values.Set(key, fmt.Sprint(v))
	}
	target.RawQuery = values.Encode()
	return target.String(), nil
}

// present - разыменовывает указатель, nil в том числе типизированный считается отсутствующим
func present(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, false
		}
		return present(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
	}
	return value, true
}

// contextError - истечение срока отличаем от HTTP ошибок
func (g *Gateway) contextError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: g.timeout, Err: err}
	}
	if errors.Is(err, context.Canceled) || ctx.Err() == nil {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Timeout: g.timeout, Err: ctx.Err()}
	}
	return err
}

func decodeBody(resp *response, out any) error {
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(resp.body)) == 0 && resp.status == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &UpstreamError{
			Status:  resp.status,
			Message: "malformed upstream response",
			Raw:     string(resp.body),
			Err:     err,
		}
	}
	return nil
}
