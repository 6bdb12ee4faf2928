package auth

import (
	"testing"

	"asistencia-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func session(rol models.Rol) *models.Empleado {
	return &models.Empleado{ID: 1, Usuario: "u", Rol: rol}
}

func TestGuard(t *testing.T) {
	testCases := []struct {
		name     string
		page     Page
		current  *models.Empleado
		expected Decision
	}{
		{"no session", PageAdmin, nil, Decision{Redirect: PageLogin}},
		{"empty record", PageDashboard, &models.Empleado{}, Decision{Redirect: PageLogin}},
		{"admin on admin", PageAdmin, session(models.RolAdmin), Decision{Allow: true}},
		{"supervisor on admin", PageAdmin, session(models.RolSupervisor), Decision{Redirect: PageSupervisor}},
		{"empleado on admin", PageAdmin, session(models.RolEmpleado), Decision{Redirect: PageDashboard}},
		{"admin on supervisor", PageSupervisor, session(models.RolAdmin), Decision{Allow: true}},
		{"supervisor on supervisor", PageSupervisor, session(models.RolSupervisor), Decision{Allow: true}},
		{"empleado on supervisor", PageSupervisor, session(models.RolEmpleado), Decision{Redirect: PageDashboard}},
		{"empleado on dashboard", PageDashboard, session(models.RolEmpleado), Decision{Allow: true}},
		{"admin on dashboard", PageDashboard, session(models.RolAdmin), Decision{Redirect: PageAdmin}},
		{"supervisor on dashboard", PageDashboard, session(models.RolSupervisor), Decision{Redirect: PageSupervisor}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Guard(RequiredRoles(tc.page), tc.current))
		})
	}
}

func TestPersonalRoles(t *testing.T) {
	assert.True(t, Guard(PersonalRoles, session(models.RolSupervisor)).Allow)
	assert.True(t, Guard(PersonalRoles, session(models.RolEmpleado)).Allow)
	assert.False(t, Guard(PersonalRoles, session(models.RolAdmin)).Allow)
}

func TestNavigationPath(t *testing.T) {
	testCases := []struct {
		nav      Navigation
		expected string
	}{
		{Navigation{Page: PageDashboard, TenantID: "empresa_a"}, "/dashboard?empresa=empresa_a"},
		{Navigation{Page: PageLogin, TenantID: "demo"}, "/index?empresa=demo"},
		{Navigation{Page: PageAdmin}, "/admin"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.nav.Path())
		})
	}
}

func TestDashboardFor(t *testing.T) {
	assert.Equal(t, PageAdmin, DashboardFor(models.RolAdmin))
	assert.Equal(t, PageSupervisor, DashboardFor(models.RolSupervisor))
	assert.Equal(t, PageDashboard, DashboardFor(models.RolEmpleado))
	assert.Equal(t, PageLogin, DashboardFor("visitante"))
}
