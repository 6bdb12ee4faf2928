package cache

import (
	"sync"
	"time"

	"asistencia-bot/internal/metrics"

	"github.com/facebookgo/clock"
)

// Ключи ресурсов
const (
	KeyEmpleados        = "empleados"
	KeyEmpleadosActivos = "empleadosActivos"
	KeyServicios        = "servicios"
	KeyDiasDescanso     = "diasDescanso"
	KeyRegistros        = "registros"
	KeyMisRegistros     = "misRegistros"
	KeyFaltas           = "faltas"
)

type entry struct {
	data      any
	timestamp time.Time
}

// Cache мемоизация результатов по имени ресурса с фиксированным TTL
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[string]entry
}

func New(ttl time.Duration, clk clock.Clock) *Cache {
	if clk == nil {
		clk = clock.New()
	}
	return &Cache{
		ttl:     ttl,
		clock:   clk,
		entries: make(map[string]entry),
	}
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// IsValid true, если запись есть, данные присутствуют и TTL не истек
func (c *Cache) IsValid(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.fresh(c.entries[key])
}

func (c *Cache) fresh(e entry) bool {
	if e.data == nil || e.timestamp.IsZero() {
		return false
	}
	return c.clock.Now().Sub(e.timestamp) < c.ttl
}

func (c *Cache) Set(key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{data: data, timestamp: c.clock.Now()}
}

// Get отдает данные только пока запись свежая
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e := c.entries[key]
	ok := c.fresh(e)
	c.mu.RUnlock()

	if !ok {
		metrics.CacheLookupsTotal.WithLabelValues(key, "miss").Inc()
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues(key, "hit").Inc()
	return e.data, true
}

// Invalidate сбрасывает указанные ключи; без аргументов - все
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		for k := range c.entries {
			c.entries[k] = entry{}
		}
		return
	}

	for _, k := range keys {
		if _, ok := c.entries[k]; ok {
			c.entries[k] = entry{}
		}
	}
}

// Lookup типизированный Get; запись другого типа считается промахом
func Lookup[T any](c *Cache, key string) (T, bool) {
	var zero T
	data, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := data.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
