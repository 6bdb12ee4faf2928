package workspace

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/config"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/inactivity"
	"asistencia-bot/internal/metrics"
	"asistencia-bot/internal/repository"
	"asistencia-bot/internal/session"

	"github.com/facebookgo/clock"
	"github.com/sirupsen/logrus"
)

// TenantKey ключ хранилища с выбранной компанией чата
const TenantKey = "empresa"

type GatewayFactory func(tenant config.Tenant) gateway.Caller

type Options struct {
	CacheTTL         time.Duration
	IdleTimeout      time.Duration
	ActivityThrottle time.Duration
}

func OptionsFromConfig(cfg *config.BotConfig) Options {
	return Options{
		CacheTTL:         cfg.CacheTTL,
		IdleTimeout:      cfg.IdleTimeout,
		ActivityThrottle: cfg.ActivityThrottle,
	}
}

// Manager хранит рабочие пространства всех чатов
type Manager struct {
	mu         sync.Mutex
	storage    repository.StorageRepository
	registry   *config.Registry
	opts       Options
	clock      clock.Clock
	newGateway GatewayFactory
	onExpire   func(*Workspace)
	workspaces map[int64]*Workspace
	logger     *logrus.Entry
}

func NewManager(storage repository.StorageRepository, registry *config.Registry, opts Options, clk clock.Clock, newGateway GatewayFactory) *Manager {
	if clk == nil {
		clk = clock.New()
	}
	return &Manager{
		storage:    storage,
		registry:   registry,
		opts:       opts,
		clock:      clk,
		newGateway: newGateway,
		workspaces: make(map[int64]*Workspace),
		logger:     logrus.WithField("component", "workspace"),
	}
}

// OnExpire вызывается после очистки сессии по таймеру простоя
func (m *Manager) OnExpire(fn func(*Workspace)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

func (m *Manager) Registry() *config.Registry {
	return m.registry
}

// Open загружает "страницу" заново для компании tenantID и запоминает выбор
func (m *Manager) Open(chatID int64, tenantID string) (*Workspace, error) {
	tenant, err := m.registry.Resolve(tenantID)
	if err != nil {
		return nil, err
	}

	if err := m.storage.Set(namespace(chatID), TenantKey, tenant.ID); err != nil {
		m.logger.WithError(err).WithField("chat_id", chatID).Error("failed to persist company")
	}

	ws := m.build(chatID, tenant)

	m.mu.Lock()
	old := m.workspaces[chatID]
	m.workspaces[chatID] = ws
	m.mu.Unlock()

	if old != nil && old.Monitor != nil {
		old.Monitor.Stop()
	}
	m.updateGauge()

	return ws, nil
}

// Get текущее пространство чата; после рестарта восстанавливается из хранилища
func (m *Manager) Get(chatID int64) *Workspace {
	m.mu.Lock()
	ws, ok := m.workspaces[chatID]
	m.mu.Unlock()
	if ok {
		return ws
	}

	tenant := m.restoreTenant(chatID)
	ws = m.build(chatID, tenant)
	if cur := ws.Current(); cur.HasSession() {
		ws.SetPage(auth.DashboardFor(cur.Rol))
	}
	if keys := m.StoredKeys(chatID); len(keys) > 0 {
		m.logger.WithFields(logrus.Fields{
			"chat_id": chatID,
			"empresa": tenant.ID,
			"keys":    keys,
		}).Debug("workspace restored from storage")
	}

	m.mu.Lock()
	// параллельный запрос мог успеть раньше
	if existing, ok := m.workspaces[chatID]; ok {
		m.mu.Unlock()
		ws.Monitor.Stop()
		return existing
	}
	m.workspaces[chatID] = ws
	m.mu.Unlock()

	m.updateGauge()
	return ws
}

// StoredKeys ключи, сохраненные в хранилище для чата
func (m *Manager) StoredKeys(chatID int64) []string {
	keys, err := m.storage.Keys(namespace(chatID))
	if err != nil {
		m.logger.WithError(err).WithField("chat_id", chatID).Error("failed to list stored keys")
		return nil
	}
	return keys
}

func (m *Manager) restoreTenant(chatID int64) config.Tenant {
	log := m.logger.WithField("chat_id", chatID)

	id, _, err := m.storage.Get(namespace(chatID), TenantKey)
	if err != nil {
		log.WithError(err).Error("failed to read company")
	}

	tenant, err := m.registry.Resolve(id)
	if err != nil {
		if !errors.Is(err, config.ErrUnknownTenant) {
			log.WithError(err).Error("failed to resolve company")
		}
		tenant, _ = m.registry.Resolve(config.DemoTenantID)
	}
	return tenant
}

func (m *Manager) build(chatID int64, tenant config.Tenant) *Workspace {
	ws := New(
		chatID,
		tenant,
		m.newGateway(tenant),
		session.NewStore(m.storage, namespace(chatID), tenant),
		cache.New(m.opts.CacheTTL, m.clock),
		nil,
	)
	ws.Monitor = inactivity.New(m.clock, m.opts.IdleTimeout, m.opts.ActivityThrottle, func() {
		m.expire(ws)
	})
	ws.Monitor.Arm()
	return ws
}

func (m *Manager) expire(ws *Workspace) {
	hadSession := ws.Current().HasSession()
	ws.Sessions.Clear()
	ws.Cache.Invalidate()
	ws.SetPage(auth.PageLogin)

	if hadSession {
		metrics.SessionExpirationsTotal.Inc()
		m.logger.WithFields(logrus.Fields{
			"chat_id": ws.ChatID,
			"empresa": ws.Tenant.ID,
		}).Info("session expired due to inactivity")
	}

	m.mu.Lock()
	// таймер мертв: следующий запрос получит новое пространство
	if m.workspaces[ws.ChatID] == ws {
		delete(m.workspaces, ws.ChatID)
	}
	hook := m.onExpire
	m.mu.Unlock()
	m.updateGauge()

	// на странице входа без сессии сообщать не о чем
	if hook != nil && hadSession {
		hook(ws)
	}
}

func (m *Manager) Close(chatID int64) {
	m.mu.Lock()
	ws, ok := m.workspaces[chatID]
	delete(m.workspaces, chatID)
	m.mu.Unlock()

	if ok && ws.Monitor != nil {
		ws.Monitor.Stop()
	}
	m.updateGauge()
}

// InvalidatePage сбрасывает ключи кэша у всех чатов, открытых на странице page.
// Возвращает число затронутых чатов
func (m *Manager) InvalidatePage(page auth.Page, keys ...string) int {
	m.mu.Lock()
	targets := make([]*Workspace, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		if ws.Page() == page {
			targets = append(targets, ws)
		}
	}
	m.mu.Unlock()

	for _, ws := range targets {
		ws.Cache.Invalidate(keys...)
	}
	return len(targets)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

func (m *Manager) updateGauge() {
	metrics.ActiveWorkspaces.Set(float64(m.Len()))
}

func namespace(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
