package models

import "time"

// AccessToken - закэшированный bearer токен дистрибьютора
type AccessToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Valid - токен действителен, только если now строго раньше (ExpiresAt - margin)
func (t *AccessToken) Valid(now time.Time, margin time.Duration) bool {
	if t == nil || t.Value == "" {
		return false
	}
	return now.Before(t.ExpiresAt.Add(-margin))
}

// TokenResponse - ответ OAuth сервера на client_credentials grant
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
