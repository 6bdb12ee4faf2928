package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrFieldMissing = errors.New("field missing from response")

// Result единый конверт ответа бэкенда: {success, message?, ...поля}
type Result struct {
	Success bool
	Message string
	fields  map[string]json.RawMessage
}

// Failure неуспешный результат с сообщением для пользователя
func Failure(message string) Result {
	return Result{Success: false, Message: message}
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Result{fields: raw}
	if v, ok := raw["success"]; ok {
		if err := json.Unmarshal(v, &r.Success); err != nil {
			return fmt.Errorf("success: %w", err)
		}
	}
	if v, ok := raw["message"]; ok {
		// message бывает null - это не ошибка
		_ = json.Unmarshal(v, &r.Message)
	}
	return nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.fields)+2)
	for k, v := range r.fields {
		out[k] = v
	}

	success, _ := json.Marshal(r.Success)
	out["success"] = success
	if r.Message != "" {
		message, _ := json.Marshal(r.Message)
		out["message"] = message
	}
	return json.Marshal(out)
}

// Has сообщает, присутствует ли поле в ответе (и не равно null)
func (r Result) Has(field string) bool {
	v, ok := r.fields[field]
	return ok && string(v) != "null"
}

// Decode разбирает одно поле ответа в v
func (r Result) Decode(field string, v any) error {
	raw, ok := r.fields[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldMissing, field)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", field, err)
	}
	return nil
}

// Bool читает необязательный логический флаг (например "tarde")
func (r Result) Bool(field string) bool {
	var b bool
	if err := r.Decode(field, &b); err != nil {
		return false
	}
	return b
}
