package validators

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	partNumberPattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-/]{0,49}$`)
	documentNumberPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]{0,39}$`)
)

// PartNumber - номер товара дистрибьютора: буквы, цифры, точка, дефис и слеш, до 50 символов
func PartNumber(number string) bool {
	return partNumberPattern.MatchString(number)
}

// DocumentNumber - номер заказа, предложения, возврата или счёта
func DocumentNumber(number string) bool {
	return documentNumberPattern.MatchString(number)
}

// New - валидатор входных моделей.
// В сообщениях об ошибках используются имена полей из json тегов.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("partnumber", func(fl validator.FieldLevel) bool {
		return PartNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("docnumber", func(fl validator.FieldLevel) bool {
		return DocumentNumber(fl.Field().String())
	})
	return v
}
