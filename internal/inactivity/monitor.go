package inactivity

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

// Signal грубый признак активности пользователя
type Signal int

const (
	Press Signal = iota
	Click
	Scroll
	Touch
	VisibilityRegained
)

func (s Signal) String() string {
	switch s {
	case Press:
		return "press"
	case Click:
		return "click"
	case Scroll:
		return "scroll"
	case Touch:
		return "touch"
	case VisibilityRegained:
		return "visibility"
	}
	return "unknown"
}

// Monitor таймер простоя, который перезапускается активностью.
// По истечении вызывает onExpire ровно один раз
type Monitor struct {
	mu       sync.Mutex
	clock    clock.Clock
	idle     time.Duration
	throttle time.Duration
	onExpire func()

	timer      *clock.Timer
	generation uint64
	lastReset  time.Time
	armed      bool
	expired    bool
	resets     int
}

func New(clk clock.Clock, idle, throttle time.Duration, onExpire func()) *Monitor {
	if clk == nil {
		clk = clock.New()
	}
	if onExpire == nil {
		onExpire = func() {}
	}
	return &Monitor{
		clock:    clk,
		idle:     idle,
		throttle: throttle,
		onExpire: onExpire,
	}
}

// Arm запускает таймер сразу, без учета троттлинга
func (m *Monitor) Arm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.expired {
		return
	}
	m.armed = true
	m.restartLocked(m.clock.Now())
}

// Touch перезапускает таймер, если с прошлого сброса прошло не меньше throttle.
// Возвращает true, если сброс принят
func (m *Monitor) Touch(_ Signal) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.armed || m.expired {
		return false
	}

	now := m.clock.Now()
	if now.Sub(m.lastReset) < m.throttle {
		return false
	}

	m.restartLocked(now)
	m.resets++
	return true
}

func (m *Monitor) restartLocked(now time.Time) {
	if m.timer != nil {
		m.timer.Stop()
	}

	m.generation++
	gen := m.generation
	m.lastReset = now
	m.timer = m.clock.AfterFunc(m.idle, func() {
		m.expire(gen)
	})
}

func (m *Monitor) expire(gen uint64) {
	m.mu.Lock()
	// старый таймер мог сработать уже после перезапуска
	if gen != m.generation || !m.armed || m.expired {
		m.mu.Unlock()
		return
	}
	m.expired = true
	m.armed = false
	m.timer = nil
	m.mu.Unlock()

	m.onExpire()
}

// Stop отменяет таймер без вызова onExpire
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.armed = false
	m.generation++
}

func (m *Monitor) Expired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expired
}

// Resets число принятых сбросов после Arm
func (m *Monitor) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}
