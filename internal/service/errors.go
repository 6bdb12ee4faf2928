package service

import (
	"errors"

	"asistencia-bot/internal/gateway"
)

var (
	ErrNoSession = errors.New("no hay sesión activa")
	ErrForbidden = errors.New("no tienes permiso para esta acción")
)

// BackendError отказ бэкенда (success:false); сообщение показывается пользователю как есть
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return e.Message
}

// ValidationError ошибка заполнения формы
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func backendError(res gateway.Result, fallback string) error {
	if res.Message != "" {
		return &BackendError{Message: res.Message}
	}
	return &BackendError{Message: fallback}
}

// UserMessage текст ошибки для пользователя
func UserMessage(err error) string {
	var be *BackendError
	var ve *ValidationError
	switch {
	case errors.As(err, &be):
		return be.Message
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrNoSession), errors.Is(err, ErrForbidden):
		return err.Error()
	}
	return gateway.MsgConnection
}
