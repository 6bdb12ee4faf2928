package service

import (
	"asistencia-bot/pkg/timefmt"

	"github.com/facebookgo/clock"
)

// Services контроллеры всех страниц
type Services struct {
	Auth       *AuthService
	Attendance *AttendanceService
	Employees  *EmployeeService
	Catalog    *CatalogService
	RestDays   *RestDayService
	Absences   *AbsenceService
	Dashboard  *DashboardService

	clock clock.Clock
}

func New(clk clock.Clock) *Services {
	if clk == nil {
		clk = clock.New()
	}

	attendance := NewAttendanceService(clk)
	employees := NewEmployeeService()
	restDays := NewRestDayService()

	return &Services{
		Auth:       NewAuthService(),
		Attendance: attendance,
		Employees:  employees,
		Catalog:    NewCatalogService(),
		RestDays:   restDays,
		Absences:   NewAbsenceService(),
		Dashboard:  NewDashboardService(employees, attendance, restDays),
		clock:      clk,
	}
}

// CurrentDate сегодняшняя дата в формате бэкенда
func (s *Services) CurrentDate() string {
	return timefmt.CurrentDate(s.clock.Now())
}
