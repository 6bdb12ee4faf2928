package service

import (
	"errors"
	"slices"

	"asistencia-bot/internal/models"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("motivo", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.Motivos, fl.Field().String())
	})
	_ = v.RegisterValidation("tipo_registro", func(fl validator.FieldLevel) bool {
		return models.TipoRegistro(fl.Field().String()).Valid()
	})
	return v
}

// validate проверяет форму и переводит первую ошибку в сообщение.
// Ключи messages: "Поле.тег" или просто "Поле"
func validate(v *validator.Validate, form any, messages map[string]string, fallback string) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return &ValidationError{Message: msg}
		}
		if msg, ok := messages[fe.Field()]; ok {
			return &ValidationError{Message: msg}
		}
	}
	return &ValidationError{Message: fallback}
}
