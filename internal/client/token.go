package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/denmor86/ya-reseller/internal/logger"
	"github.com/denmor86/ya-reseller/internal/models"
	"golang.org/x/sync/singleflight"
)

// TokenPath - путь OAuth эндпоинта дистрибьютора
const TokenPath = "/oauth/oauth20/token"

// refreshTimeout - ограничение общего запроса токена, не зависящее от вызывающих
const refreshTimeout = 30 * time.Second

// TokenProvider - источник bearer токена для заголовков запросов
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// TokenManager - получение и кэширование токена по client_credentials.
// Хост OAuth не зависит от окружения API: у песочницы нет собственного OAuth сервера.
type TokenManager struct {
	tokenURL     string
	clientID     string
	clientSecret string
	margin       time.Duration
	httpClient   HTTPClient
	current      atomic.Pointer[models.AccessToken]
	group        singleflight.Group
	timeout      time.Duration
	now          func() time.Time
}

func NewTokenManager(oauthURL, clientID, clientSecret string, margin time.Duration, client HTTPClient) *TokenManager {
	return &TokenManager{
		tokenURL:     strings.TrimRight(oauthURL, "/") + TokenPath,
		clientID:     clientID,
		clientSecret: clientSecret,
		margin:       margin,
		httpClient:   client,
		timeout:      refreshTimeout,
		now:          time.Now,
	}
}

// Token - возвращает действующий токен, при необходимости запрашивает новый.
// Параллельные обновления объединяются, каждый вызывающий ждёт не дольше своего контекста.
// Общий запрос не наследует отмену первого вызывающего: её получает только он сам.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if token := m.current.Load(); m.valid(token) {
		return token.Value, nil
	}

	ch := m.group.DoChan("token", func() (interface{}, error) {
		// токен мог обновить предыдущий вызов, пока мы ждали
		if token := m.current.Load(); m.valid(token) {
			return token, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()
		return m.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*models.AccessToken).Value, nil
	}
}

// Invalidate - сброс токена, следующий запрос получит новый
func (m *TokenManager) Invalidate() {
	m.current.Store(nil)
}

func (m *TokenManager) valid(token *models.AccessToken) bool {
	if token == nil {
		return false
	}
	margin := m.margin
	// короткоживущий токен с большим запасом никогда не был бы действителен
	if lifetime := token.ExpiresAt.Sub(token.IssuedAt); margin > lifetime/2 {
		margin = lifetime / 2
	}
	return token.Valid(m.now(), margin)
}

func (m *TokenManager) fetch(ctx context.Context) (*models.AccessToken, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {m.clientID},
		"client_secret": {m.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	issuedAt := m.now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		tokenRefreshes.WithLabelValues("error").Inc()
		logger.Errorw("Failed to reach OAuth server", "error", err)
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tokenRefreshes.WithLabelValues("rejected").Inc()
		logger.Errorw("OAuth server rejected credentials", "status", resp.StatusCode)
		return nil, &AuthError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var result models.TokenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &AuthError{Status: resp.StatusCode, Message: "malformed token response", Err: err}
	}
	if result.AccessToken == "" {
		return nil, &AuthError{Status: resp.StatusCode, Message: "empty access token"}
	}
	// отменённый вызов не должен менять закэшированный токен
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token := &models.AccessToken{
		Value:     result.AccessToken,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(time.Duration(result.ExpiresIn) * time.Second),
	}
	m.current.Store(token)
	tokenRefreshes.WithLabelValues("ok").Inc()
	logger.Infow("Access token refreshed", "expires_in", result.ExpiresIn)
	return token, nil
}
