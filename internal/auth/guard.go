package auth

import (
	"net/url"
	"slices"

	"asistencia-bot/internal/models"
)

// Page одна из страниц бота
type Page string

const (
	PageLogin      Page = "index"
	PageDashboard  Page = "dashboard"
	PageSupervisor Page = "supervisor"
	PageAdmin      Page = "admin"
)

func (p Page) Title() string {
	switch p {
	case PageDashboard:
		return "Mi Asistencia"
	case PageSupervisor:
		return "Panel de Supervisor"
	case PageAdmin:
		return "Panel de Administración"
	}
	return "Iniciar Sesión"
}

// Роли, которым открыта каждая страница
var (
	AdminRoles      = []models.Rol{models.RolAdmin}
	SupervisorRoles = []models.Rol{models.RolSupervisor, models.RolAdmin}
	DashboardRoles  = []models.Rol{models.RolEmpleado}
	// личные отметки: у администратора их нет
	PersonalRoles = []models.Rol{models.RolEmpleado, models.RolSupervisor}
)

func RequiredRoles(p Page) []models.Rol {
	switch p {
	case PageAdmin:
		return AdminRoles
	case PageSupervisor:
		return SupervisorRoles
	case PageDashboard:
		return DashboardRoles
	}
	return nil
}

// Navigation переход на страницу с сохранением компании
type Navigation struct {
	Page     Page
	TenantID string
}

// Path адрес страницы вида /dashboard?empresa=empresa_a
func (n Navigation) Path() string {
	path := "/" + string(n.Page)
	if n.TenantID == "" {
		return path
	}
	return path + "?" + url.Values{"empresa": []string{n.TenantID}}.Encode()
}

// DashboardFor главная страница роли
func DashboardFor(rol models.Rol) Page {
	switch rol {
	case models.RolAdmin:
		return PageAdmin
	case models.RolSupervisor:
		return PageSupervisor
	case models.RolEmpleado:
		return PageDashboard
	}
	return PageLogin
}

// Decision результат проверки доступа
type Decision struct {
	Allow    bool
	Redirect Page
}

// Guard единая проверка доступа: без сессии - на вход, чужая роль - на свою панель
func Guard(required []models.Rol, current *models.Empleado) Decision {
	if !current.HasSession() {
		return Decision{Redirect: PageLogin}
	}
	if len(required) == 0 || slices.Contains(required, current.Rol) {
		return Decision{Allow: true}
	}
	return Decision{Redirect: DashboardFor(current.Rol)}
}
