package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/denmor86/ya-reseller/internal/client"
	"github.com/denmor86/ya-reseller/internal/validators"
	"github.com/go-playground/validator/v10"
)

const resellerAPI = "/resellers/v6"

// ErrInvalidRequest - входные параметры не прошли проверку, запрос к апстриму не выполнялся
var ErrInvalidRequest = errors.New("invalid request")

// Requester - исходящий вызов API дистрибьютора
type Requester interface {
	Do(ctx context.Context, method, path string, opts client.RequestOptions, out any) error
}

var validate = validators.New()

func validateStruct(value any) error {
	if err := validate.Struct(value); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return fmt.Errorf("%w: %s", ErrInvalidRequest, validationErrs.Error())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// documentPath - путь к документу с проверенным номером
func documentPath(resource, number string) (string, error) {
	if !validators.DocumentNumber(number) {
		return "", fmt.Errorf("%w: malformed number %q", ErrInvalidRequest, number)
	}
	return resellerAPI + resource + "/" + url.PathEscape(number), nil
}
