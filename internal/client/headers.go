package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Заголовки, обязательные для API дистрибьютора
const (
	HeaderCustomerNumber = "IM-CustomerNumber"
	HeaderCountryCode    = "IM-CountryCode"
	HeaderSenderID       = "IM-SenderID"
	HeaderCorrelationID  = "IM-CorrelationID"
)

// Identity - идентификация реселлера по умолчанию (из конфигурации)
type Identity struct {
	CustomerNumber string
	CountryCode    string
	SenderID       string
}

// HeaderOverrides - переопределения заголовков для конкретного вызова.
// Пустые поля означают значение из конфигурации, Extra побеждает всё сгенерированное.
type HeaderOverrides struct {
	CustomerNumber string
	CountryCode    string
	SenderID       string
	Extra          http.Header
}

// HeaderBuilder - сборка заголовков исходящего запроса
type HeaderBuilder struct {
	tokens   TokenProvider
	defaults Identity
	newID    func() string
}

func NewHeaderBuilder(tokens TokenProvider, defaults Identity) *HeaderBuilder {
	return &HeaderBuilder{
		tokens:   tokens,
		defaults: defaults,
		newID:    NewCorrelationID,
	}
}

// NewCorrelationID - новый идентификатор трассировки: UUID без дефисов, 32 hex символа
func NewCorrelationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Build - заголовки для одного вызова. Ошибка возможна только при получении токена.
func (b *HeaderBuilder) Build(ctx context.Context, overrides HeaderOverrides) (http.Header, error) {
	token, err := b.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("Authorization", "Bearer "+token)
	h.Set(HeaderCustomerNumber, pick(overrides.CustomerNumber, b.defaults.CustomerNumber))
	h.Set(HeaderCountryCode, pick(overrides.CountryCode, b.defaults.CountryCode))
	h.Set(HeaderSenderID, pick(overrides.SenderID, b.defaults.SenderID))
	h.Set(HeaderCorrelationID, b.newID())

	for name, values := range overrides.Extra {
		h[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
	return h, nil
}

// InvalidateToken - сброс токена после ответа 401 от апстрима
func (b *HeaderBuilder) InvalidateToken() {
	b.tokens.Invalidate()
}

func pick(override, fallback string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	return fallback
}
