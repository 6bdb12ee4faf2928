package service

import (
	"context"
	"testing"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Call", "login", gateway.Params{"usuario": "jdoe", "pin": "1234"}).
		Return(result(t, `{"success":true,"empleado":{"id":12,"nombre":"John","apellido":"Doe","usuario":"jdoe","rol":"empleado","servicio_id":3}}`)).
		Once()

	ws := newWorkspace(t, gw, newClock())
	empleado, nav, err := NewAuthService().Login(context.Background(), ws, " jdoe ", "1234")

	require.NoError(t, err)
	assert.Equal(t, "John Doe", empleado.NombreCompleto())
	assert.Equal(t, "/dashboard?empresa=empresa_a", nav.Path())
	assert.Equal(t, auth.PageDashboard, ws.Page())

	stored := ws.Current()
	require.NotNil(t, stored)
	assert.Equal(t, 12, stored.ID)
	assert.Equal(t, models.RolEmpleado, stored.Rol)
	assert.Equal(t, "empresa_a", stored.EmpresaID)
	gw.AssertExpectations(t)
}

func TestLoginRedirectsByRole(t *testing.T) {
	testCases := []struct {
		rol      string
		expected string
	}{
		{"admin", "/admin?empresa=empresa_a"},
		{"supervisor", "/supervisor?empresa=empresa_a"},
		{"empleado", "/dashboard?empresa=empresa_a"},
		{"otro", "/dashboard?empresa=empresa_a"},
	}

	for _, tc := range testCases {
		t.Run(tc.rol, func(t *testing.T) {
			gw := new(mockGateway)
			gw.On("Call", "login", mock.Anything).
				Return(result(t, `{"success":true,"empleado":{"id":1,"usuario":"u","rol":"`+tc.rol+`"}}`))

			_, nav, err := NewAuthService().Login(context.Background(), newWorkspace(t, gw, newClock()), "u", "0000")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, nav.Path())
		})
	}
}

func TestLoginValidation(t *testing.T) {
	testCases := []struct {
		name     string
		usuario  string
		pin      string
		expected string
	}{
		{"empty user", "  ", "1234", "Por favor ingresa tu usuario"},
		{"empty pin", "jdoe", "", "El PIN debe ser de 4 dígitos numéricos"},
		{"short pin", "jdoe", "123", "El PIN debe ser de 4 dígitos numéricos"},
		{"letters", "jdoe", "12a4", "El PIN debe ser de 4 dígitos numéricos"},
		{"signed", "jdoe", "-123", "El PIN debe ser de 4 dígitos numéricos"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(mockGateway)
			ws := newWorkspace(t, gw, newClock())

			_, _, err := NewAuthService().Login(context.Background(), ws, tc.usuario, tc.pin)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.expected, verr.Message)
			gw.AssertNotCalled(t, "Call", mock.Anything, mock.Anything)
			assert.Nil(t, ws.Current())
		})
	}
}

func TestLoginRejected(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{"backend message", `{"success":false,"message":"PIN incorrecto"}`, "PIN incorrecto"},
		{"no message", `{"success":false}`, "Usuario o PIN incorrectos"},
		{"success without employee", `{"success":true}`, "Usuario o PIN incorrectos"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(mockGateway)
			gw.On("Call", "login", mock.Anything).Return(result(t, tc.body))
			ws := newWorkspace(t, gw, newClock())

			_, _, err := NewAuthService().Login(context.Background(), ws, "jdoe", "1234")

			var berr *BackendError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, tc.expected, berr.Message)
			assert.Nil(t, ws.Current())
		})
	}
}

func TestLoginNetworkFailure(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Call", "login", mock.Anything).Return(gateway.Failure(gateway.MsgTimeout))

	_, _, err := NewAuthService().Login(context.Background(), newWorkspace(t, gw, newClock()), "jdoe", "1234")

	assert.Equal(t, gateway.MsgTimeout, UserMessage(err))
}

func TestEnterAndAuthorize(t *testing.T) {
	svc := NewAuthService()
	ws := newWorkspace(t, new(mockGateway), newClock())

	_, nav, ok := svc.Enter(ws, auth.PageAdmin)
	assert.False(t, ok)
	assert.Equal(t, "/index?empresa=empresa_a", nav.Path())

	_, err := svc.Authorize(ws, auth.AdminRoles)
	assert.ErrorIs(t, err, ErrNoSession)

	ws.Sessions.Save(models.Empleado{ID: 5, Usuario: "sup", Rol: models.RolSupervisor})

	_, nav, ok = svc.Enter(ws, auth.PageAdmin)
	assert.False(t, ok)
	assert.Equal(t, auth.PageSupervisor, nav.Page)
	assert.Equal(t, auth.PageSupervisor, ws.Page())

	current, nav, ok := svc.Enter(ws, auth.PageSupervisor)
	assert.True(t, ok)
	assert.Equal(t, "sup", current.Usuario)
	assert.Equal(t, "/supervisor?empresa=empresa_a", nav.Path())

	_, err = svc.Authorize(ws, auth.AdminRoles)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Authorize(ws, auth.PersonalRoles)
	assert.NoError(t, err)
}

func TestResumeAndLogout(t *testing.T) {
	svc := NewAuthService()
	ws := newWorkspace(t, new(mockGateway), newClock())

	_, _, ok := svc.Resume(ws)
	assert.False(t, ok)

	ws.Sessions.Save(models.Empleado{ID: 1, Usuario: "admin", Rol: models.RolAdmin})
	_, nav, ok := svc.Resume(ws)
	assert.True(t, ok)
	assert.Equal(t, auth.PageAdmin, nav.Page)

	nav = svc.Logout(ws)
	assert.Equal(t, "/index?empresa=empresa_a", nav.Path())
	assert.Nil(t, ws.Current())
}
