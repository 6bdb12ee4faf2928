package service

import (
	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/gateway"
)

// decodeList читает список из ответа; отсутствующее поле - пустой список
func decodeList[T any](res gateway.Result, field string) ([]T, error) {
	if !res.Has(field) {
		return []T{}, nil
	}

	var out []T
	if err := res.Decode(field, &out); err != nil {
		return nil, &BackendError{Message: gateway.MsgBadResponse}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// cachedList отдает свежий список из кэша или загружает его и кладет в кэш
func cachedList[T any](c *cache.Cache, key string, force bool, load func() ([]T, error)) ([]T, error) {
	if !force {
		if v, ok := cache.Lookup[[]T](c, key); ok {
			return v, nil
		}
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	c.Set(key, v)
	return v, nil
}
