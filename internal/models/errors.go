package models

// ErrorResponse - тело ответа с ошибкой для UI
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
}

// InvalidateRequest - запрос сброса кэша по тегам
type InvalidateRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,dive,oneof=catalog product pricing"`
}

// InvalidateResponse - результат сброса кэша
type InvalidateResponse struct {
	Tags    []string `json:"tags"`
	Removed int      `json:"removed"`
}
