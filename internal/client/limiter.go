package client

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter - ограничитель исходящих запросов к апстриму.
// После ответа 429 все запросы отклоняются до истечения Retry-After.
type RateLimiter struct {
	limiter      *rate.Limiter
	mu           sync.Mutex
	blockedUntil time.Time
}

// NewRateLimiter - perSecond <= 0 означает отсутствие ограничения
func NewRateLimiter(perSecond int) *RateLimiter {
	if perSecond <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond)}
}

func (rl *RateLimiter) Wait(ctx context.Context) error {
	if remaining := rl.Blocked(); remaining > 0 {
		return &RateLimitError{RetryAfter: remaining}
	}
	return rl.limiter.Wait(ctx)
}

// Blocked - сколько ещё действует блокировка после 429
func (rl *RateLimiter) Blocked() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	remaining := time.Until(rl.blockedUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (rl *RateLimiter) BlockFor(duration time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	until := time.Now().Add(duration)
	// более длинная блокировка не сокращается
	if until.After(rl.blockedUntil) {
		rl.blockedUntil = until
	}
}

func ParseRetryAfter(headers http.Header) time.Duration {
	retryAfter := headers.Get("Retry-After")
	if retryAfter == "" {
		return time.Minute // default
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(retryAfter); err == nil {
		return time.Until(t)
	}

	return time.Minute // fallback
}
