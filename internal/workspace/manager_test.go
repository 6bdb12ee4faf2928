package workspace

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/config"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/repository"
	"asistencia-bot/internal/session"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type nopGateway struct{}

func (nopGateway) Call(context.Context, string, gateway.Params) gateway.Result {
	return gateway.Failure(gateway.MsgConnection)
}

func newStorage(t *testing.T) *repository.GormStorageRepository {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	repo, err := repository.NewGormStorageRepository(db)
	require.NoError(t, err)
	return repo
}

var testOptions = Options{
	CacheTTL:         2 * time.Minute,
	IdleTimeout:      10 * time.Minute,
	ActivityThrottle: time.Second,
}

func newManager(storage repository.StorageRepository, clk clock.Clock) *Manager {
	return NewManager(storage, config.DefaultRegistry(), testOptions, clk, func(config.Tenant) gateway.Caller {
		return nopGateway{}
	})
}

func TestOpenResolvesTenant(t *testing.T) {
	testCases := []struct {
		name       string
		tenantID   string
		wantTenant string
		wantErr    bool
	}{
		{name: "known", tenantID: "empresa_b", wantTenant: "empresa_b"},
		{name: "empty is demo", tenantID: "", wantTenant: config.DemoTenantID},
		{name: "unknown", tenantID: "empresa_z", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newManager(newStorage(t), clock.NewMock())

			ws, err := m.Open(100, tc.tenantID)
			if tc.wantErr {
				assert.ErrorIs(t, err, config.ErrUnknownTenant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTenant, ws.Tenant.ID)
			assert.Equal(t, auth.PageLogin, ws.Page())
			assert.Same(t, ws, m.Get(100))
		})
	}
}

func TestGetRestoresAfterRestart(t *testing.T) {
	storage := newStorage(t)
	clk := clock.NewMock()

	first := newManager(storage, clk)
	ws, err := first.Open(100, "empresa_a")
	require.NoError(t, err)
	ws.Sessions.Save(models.Empleado{ID: 4, Usuario: "sup", Rol: models.RolSupervisor})

	second := newManager(storage, clk)
	restored := second.Get(100)

	assert.Equal(t, "empresa_a", restored.Tenant.ID)
	require.NotNil(t, restored.Current())
	assert.Equal(t, "sup", restored.Current().Usuario)
	assert.Equal(t, auth.PageSupervisor, restored.Page())
	assert.Equal(t, []string{session.StorageKey, TenantKey}, second.StoredKeys(100))

	fresh := second.Get(200)
	assert.Equal(t, config.DemoTenantID, fresh.Tenant.ID)
	assert.Empty(t, second.StoredKeys(200))
}

func TestReopenReplacesWorkspace(t *testing.T) {
	m := newManager(newStorage(t), clock.NewMock())

	first, err := m.Open(100, "empresa_a")
	require.NoError(t, err)
	second, err := m.Open(100, "empresa_c")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, m.Len())
	assert.False(t, first.Monitor.Touch(0), "replaced monitor is stopped")
}

func TestExpiryClearsSessionOnce(t *testing.T) {
	clk := clock.NewMock()
	m := newManager(newStorage(t), clk)

	var hooks int32
	m.OnExpire(func(ws *Workspace) {
		atomic.AddInt32(&hooks, 1)
	})

	ws, err := m.Open(100, "empresa_a")
	require.NoError(t, err)
	ws.Sessions.Save(models.Empleado{ID: 1, Usuario: "jdoe", Rol: models.RolEmpleado})
	ws.Cache.Set(cache.KeyMisRegistros, []models.Registro{})
	ws.SetPage(auth.PageDashboard)

	clk.Add(testOptions.IdleTimeout)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&hooks) == 1 }, time.Second, 5*time.Millisecond)
	assert.Nil(t, ws.Current())
	assert.False(t, ws.Cache.IsValid(cache.KeyMisRegistros))
	assert.Equal(t, auth.PageLogin, ws.Page())

	clk.Add(testOptions.IdleTimeout)
	assert.Never(t, func() bool { return atomic.LoadInt32(&hooks) > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	next := m.Get(100)
	assert.NotSame(t, ws, next)
	assert.Equal(t, "empresa_a", next.Tenant.ID)
}

func TestExpiryWithoutSessionIsSilent(t *testing.T) {
	clk := clock.NewMock()
	m := newManager(newStorage(t), clk)

	var hooks int32
	m.OnExpire(func(ws *Workspace) {
		atomic.AddInt32(&hooks, 1)
	})

	ws, err := m.Open(100, "empresa_a")
	require.NoError(t, err)

	clk.Add(testOptions.IdleTimeout)

	assert.Never(t, func() bool { return atomic.LoadInt32(&hooks) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.NotSame(t, ws, m.Get(100), "idle workspace is still dropped")
}

func TestInvalidatePage(t *testing.T) {
	m := newManager(newStorage(t), clock.NewMock())

	admin, err := m.Open(1, "empresa_a")
	require.NoError(t, err)
	admin.SetPage(auth.PageAdmin)
	admin.Cache.Set(cache.KeyEmpleados, []int{1})

	employee, err := m.Open(2, "empresa_a")
	require.NoError(t, err)
	employee.SetPage(auth.PageDashboard)
	employee.Cache.Set(cache.KeyEmpleados, []int{1})

	n := m.InvalidatePage(auth.PageAdmin)

	assert.Equal(t, 1, n)
	assert.False(t, admin.Cache.IsValid(cache.KeyEmpleados))
	assert.True(t, employee.Cache.IsValid(cache.KeyEmpleados))
}

func TestTryBegin(t *testing.T) {
	ws := New(1, config.Tenant{ID: "demo"}, nopGateway{}, nil, cache.New(time.Minute, clock.NewMock()), nil)

	assert.True(t, ws.TryBegin())
	assert.False(t, ws.TryBegin(), "second mutation is rejected while the first runs")
	ws.End()
	assert.True(t, ws.TryBegin())
}

func TestClose(t *testing.T) {
	m := newManager(newStorage(t), clock.NewMock())

	_, err := m.Open(100, "empresa_a")
	require.NoError(t, err)
	m.Close(100)

	assert.Equal(t, 0, m.Len())
}
