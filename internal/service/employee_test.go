package service

import (
	"context"
	"testing"

	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const rosterBody = `{"success":true,"empleados":[
	{"id":1,"nombre":"Ana","apellido":"López","usuario":"alopez","rol":"empleado","servicio_id":1,"activo":true},
	{"id":2,"nombre":"Luis","apellido":"Pérez","usuario":"lperez","rol":"supervisor","servicio_id":2,"activo":false}
]}`

func validEmpleado() models.NuevoEmpleado {
	return models.NuevoEmpleado{
		Nombre:      "Marta",
		Apellido:    "Ruiz",
		Usuario:     "mruiz",
		PIN:         "4321",
		Rol:         models.RolEmpleado,
		ServicioID:  1,
		HoraEntrada: "08:00",
		HoraSalida:  "17:00",
	}
}

func TestCreateEmployeeInvalidatesRoster(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Call", "listar_empleados", gateway.Params{"solo_activos": false}).
		Return(result(t, rosterBody)).
		Times(2)
	gw.On("Call", "crear_empleado", mock.MatchedBy(func(p gateway.Params) bool {
		data, ok := p["data"].(models.NuevoEmpleado)
		return ok && data.Usuario == "mruiz" && data.PIN == "4321"
	})).
		Return(result(t, `{"success":true,"message":"Empleado creado"}`)).
		Once()

	svc := NewEmployeeService()
	ws := newWorkspace(t, gw, newClock())
	ctx := context.Background()

	roster, err := svc.Roster(ctx, ws, false)
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	_, err = svc.Roster(ctx, ws, false)
	require.NoError(t, err, "second read is served from cache")

	msg, err := svc.Create(ctx, ws, validEmpleado())
	require.NoError(t, err)
	assert.Equal(t, "Empleado creado", msg)
	assert.False(t, ws.Cache.IsValid(cache.KeyEmpleados))

	_, err = svc.Roster(ctx, ws, false)
	require.NoError(t, err)

	gw.AssertExpectations(t)
}

func TestCreateEmployeeValidation(t *testing.T) {
	testCases := []struct {
		name     string
		modify   func(*models.NuevoEmpleado)
		expected string
	}{
		{"missing name", func(e *models.NuevoEmpleado) { e.Nombre = " " }, "Completa todos los campos obligatorios"},
		{"missing service", func(e *models.NuevoEmpleado) { e.ServicioID = 0 }, "Completa todos los campos obligatorios"},
		{"missing pin", func(e *models.NuevoEmpleado) { e.PIN = "" }, "Completa todos los campos obligatorios"},
		{"short pin", func(e *models.NuevoEmpleado) { e.PIN = "12" }, "El PIN debe ser de 4 dígitos"},
		{"letters in pin", func(e *models.NuevoEmpleado) { e.PIN = "12ab" }, "El PIN debe ser de 4 dígitos"},
		{"unknown role", func(e *models.NuevoEmpleado) { e.Rol = "jefe" }, "Rol no válido"},
		{"bad hour", func(e *models.NuevoEmpleado) { e.HoraEntrada = "25:00" }, "Horario no válido (HH:MM)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(mockGateway)
			input := validEmpleado()
			tc.modify(&input)

			_, err := NewEmployeeService().Create(context.Background(), newWorkspace(t, gw, newClock()), input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.expected, verr.Message)
			gw.AssertNotCalled(t, "Call", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateEmployeeDefaultsRole(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Call", "crear_empleado", mock.MatchedBy(func(p gateway.Params) bool {
		data, ok := p["data"].(models.NuevoEmpleado)
		return ok && data.Rol == models.RolEmpleado
	})).Return(result(t, `{"success":true,"message":"ok"}`))

	input := validEmpleado()
	input.Rol = ""
	_, err := NewEmployeeService().Create(context.Background(), newWorkspace(t, gw, newClock()), input)

	require.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestSetActive(t *testing.T) {
	testCases := []struct {
		name   string
		activo bool
		action string
	}{
		{"activate", true, "activar_empleado"},
		{"deactivate", false, "desactivar_empleado"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(mockGateway)
			gw.On("Call", tc.action, gateway.Params{"empleado_id": 7}).
				Return(result(t, `{"success":true,"message":"hecho"}`)).Once()

			ws := newWorkspace(t, gw, newClock())
			ws.Cache.Set(cache.KeyEmpleados, []models.Empleado{})
			ws.Cache.Set(cache.KeyEmpleadosActivos, []models.Empleado{})

			msg, err := NewEmployeeService().SetActive(context.Background(), ws, 7, tc.activo)

			require.NoError(t, err)
			assert.Equal(t, "hecho", msg)
			assert.False(t, ws.Cache.IsValid(cache.KeyEmpleados))
			assert.False(t, ws.Cache.IsValid(cache.KeyEmpleadosActivos))
			gw.AssertExpectations(t)
		})
	}
}

func TestActiveRosterByService(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Call", "listar_empleados", gateway.Params{"solo_activos": true, "servicio_id": 2}).
		Return(result(t, `{"success":true,"empleados":[]}`)).Once()

	roster, err := NewEmployeeService().ActiveRoster(context.Background(), newWorkspace(t, gw, newClock()), 2, false)

	require.NoError(t, err)
	assert.Empty(t, roster)
	assert.NotNil(t, roster)
	gw.AssertExpectations(t)
}

func TestActiveRosterCacheIsPerService(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Call", "listar_empleados", gateway.Params{"solo_activos": true, "servicio_id": 2}).
		Return(result(t, `{"success":true,"empleados":[{"id":7,"nombre":"Ana"}]}`)).Twice()
	gw.On("Call", "listar_empleados", gateway.Params{"solo_activos": true}).
		Return(result(t, `{"success":true,"empleados":[{"id":7,"nombre":"Ana"},{"id":8,"nombre":"Luis"}]}`)).Once()

	ws := newWorkspace(t, gw, newClock())
	svc := NewEmployeeService()

	byService, err := svc.ActiveRoster(context.Background(), ws, 2, false)
	require.NoError(t, err)
	assert.Len(t, byService, 1)

	cached, err := svc.ActiveRoster(context.Background(), ws, 2, false)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	all, err := svc.ActiveRoster(context.Background(), ws, 0, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	again, err := svc.ActiveRoster(context.Background(), ws, 2, false)
	require.NoError(t, err)
	assert.Len(t, again, 1)

	gw.AssertExpectations(t)
}

func TestRosterFailureIsNotCached(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Call", "listar_empleados", mock.Anything).
		Return(gateway.Failure(gateway.MsgOffline)).Once()

	ws := newWorkspace(t, gw, newClock())
	_, err := NewEmployeeService().Roster(context.Background(), ws, false)

	assert.Equal(t, gateway.MsgOffline, UserMessage(err))
	assert.False(t, ws.Cache.IsValid(cache.KeyEmpleados))
}

func TestCatalog(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Call", "listar_servicios", gateway.Params{"solo_activos": false}).
		Return(result(t, `{"success":true,"servicios":[
			{"id":1,"nombre":"Limpieza","activo":true},
			{"id":2,"nombre":"Cocina","activo":false}
		]}`)).Once()
	gw.On("Call", "crear_servicio", gateway.Params{"data": map[string]string{"nombre": "Jardín", "descripcion": ""}}).
		Return(result(t, `{"success":true,"message":"Servicio creado"}`)).Once()

	svc := NewCatalogService()
	ws := newWorkspace(t, gw, newClock())
	ctx := context.Background()

	active, err := svc.Active(ctx, ws)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Limpieza", active[0].Nombre)

	all, err := svc.List(ctx, ws, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Create(ctx, ws, "  ", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "El nombre del servicio es obligatorio", verr.Message)

	msg, err := svc.Create(ctx, ws, "Jardín ", "")
	require.NoError(t, err)
	assert.Equal(t, "Servicio creado", msg)
	assert.False(t, ws.Cache.IsValid(cache.KeyServicios))

	gw.AssertExpectations(t)
}
