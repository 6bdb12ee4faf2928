package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/config"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/repository"
	"asistencia-bot/internal/session"
	"asistencia-bot/internal/workspace"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Call(ctx context.Context, action string, params gateway.Params) gateway.Result {
	args := m.Called(action, params)
	return args.Get(0).(gateway.Result)
}

var testTenant = config.Tenant{ID: "empresa_a", Nombre: "Divinely Cleans", APIURL: "https://backend.invalid/exec"}

// testToday дата, которую видят сервисы в тестах
const testToday = "2026-01-05"

func newClock() *clock.Mock {
	clk := clock.NewMock()
	clk.Add(time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC).Sub(clk.Now()))
	return clk
}

func newWorkspace(t *testing.T, gw gateway.Caller, clk clock.Clock) *workspace.Workspace {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	storage, err := repository.NewGormStorageRepository(db)
	require.NoError(t, err)

	return workspace.New(
		100,
		testTenant,
		gw,
		session.NewStore(storage, "100", testTenant),
		cache.New(2*time.Minute, clk),
		nil,
	)
}

func result(t *testing.T, body string) gateway.Result {
	t.Helper()

	var res gateway.Result
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	return res
}
