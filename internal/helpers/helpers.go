package helpers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/denmor86/ya-reseller/internal/client"
	"github.com/go-chi/jwtauth/v5"
)

// OverridesFromRequest - идентификация покупателя из заголовков входящего запроса.
// Пустые значения не переопределяют настройки сервиса.
func OverridesFromRequest(r *http.Request) client.HeaderOverrides {
	return client.HeaderOverrides{
		CustomerNumber: strings.TrimSpace(r.Header.Get(client.HeaderCustomerNumber)),
		CountryCode:    strings.ToUpper(strings.TrimSpace(r.Header.Get(client.HeaderCountryCode))),
		SenderID:       strings.TrimSpace(r.Header.Get(client.HeaderSenderID)),
	}
}

// QueryInt - целочисленный параметр строки запроса, отсутствующий параметр равен нулю
func QueryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %s must be an integer", name)
	}
	return value, nil
}

// AdminSubject - субъект проверенного JWT администратора
func AdminSubject(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", err
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}
