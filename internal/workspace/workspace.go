package workspace

import (
	"sync"
	"sync/atomic"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/config"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/inactivity"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/session"
)

// Workspace состояние одного чата: компания, шлюз, сессия, кэш и таймер простоя.
// Создается заново при каждом входе на страницу
type Workspace struct {
	ChatID   int64
	Tenant   config.Tenant
	Gateway  gateway.Caller
	Sessions *session.Store
	Cache    *cache.Cache
	Monitor  *inactivity.Monitor

	mu   sync.RWMutex
	page auth.Page
	busy atomic.Bool
}

func New(chatID int64, tenant config.Tenant, gw gateway.Caller, sessions *session.Store, c *cache.Cache, monitor *inactivity.Monitor) *Workspace {
	return &Workspace{
		ChatID:   chatID,
		Tenant:   tenant,
		Gateway:  gw,
		Sessions: sessions,
		Cache:    c,
		Monitor:  monitor,
		page:     auth.PageLogin,
	}
}

func (w *Workspace) Page() auth.Page {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.page
}

func (w *Workspace) SetPage(p auth.Page) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.page = p
}

// Navigate переключает страницу и возвращает переход с текущей компанией
func (w *Workspace) Navigate(p auth.Page) auth.Navigation {
	w.SetPage(p)
	return auth.Navigation{Page: p, TenantID: w.Tenant.ID}
}

// Current пользователь текущей сессии или nil
func (w *Workspace) Current() *models.Empleado {
	return w.Sessions.Load()
}

// TryBegin занимает чат на время изменяющего вызова; false - вызов уже идет
func (w *Workspace) TryBegin() bool {
	return w.busy.CompareAndSwap(false, true)
}

func (w *Workspace) End() {
	w.busy.Store(false)
}

func (w *Workspace) Touch(sig inactivity.Signal) bool {
	if w.Monitor == nil {
		return false
	}
	return w.Monitor.Touch(sig)
}
