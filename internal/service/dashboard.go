package service

import (
	"context"
	"slices"

	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Виды фильтра панели администратора; кроме них фильтром может быть любая причина
const (
	FiltroTarde         = "tarde"
	FiltroDescansoTotal = "descanso-total"
)

// Filtered результат фильтра по карточке статистики
type Filtered struct {
	Titulo    string
	Registros []models.Registro
	Descansos []models.DiaDescanso
}

func (f Filtered) Len() int {
	return len(f.Registros) + len(f.Descansos)
}

type DashboardService struct {
	employees  *EmployeeService
	attendance *AttendanceService
	restDays   *RestDayService
	logger     *logrus.Entry
}

func NewDashboardService(employees *EmployeeService, attendance *AttendanceService, restDays *RestDayService) *DashboardService {
	return &DashboardService{
		employees:  employees,
		attendance: attendance,
		restDays:   restDays,
		logger:     logrus.WithField("component", "dashboard"),
	}
}

// Stats три запроса параллельно; неудачный раздел просто остается пустым.
// Ошибка возвращается, только если не загрузилось ничего
func (s *DashboardService) Stats(ctx context.Context, ws *workspace.Workspace) (*models.DashboardStats, error) {
	var (
		empleados []models.Empleado
		registros []models.Registro
		descansos []models.DiaDescanso
		errs      [3]error
	)

	var g errgroup.Group
	g.Go(func() error {
		empleados, errs[0] = s.employees.ActiveRoster(ctx, ws, 0, true)
		return nil
	})
	g.Go(func() error {
		registros, errs[1] = s.attendance.Daily(ctx, ws, s.attendance.today(), true)
		return nil
	})
	g.Go(func() error {
		descansos, errs[2] = s.restDays.List(ctx, ws, true)
		return nil
	})
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			s.logger.WithError(err).WithField("section", i).Warn("failed to load dashboard section")
		}
	}
	if errs[0] != nil && errs[1] != nil && errs[2] != nil {
		return nil, errs[0]
	}

	stats := &models.DashboardStats{
		PorMotivo:   make(map[string]int, len(models.Motivos)),
		EmpleadosOK: errs[0] == nil,
		RegistrosOK: errs[1] == nil,
		DescansosOK: errs[2] == nil,
	}

	if stats.EmpleadosOK {
		stats.EmpleadosActivos = len(empleados)
	}

	if stats.RegistrosOK {
		stats.RegistrosHoy = registros
		for _, r := range registros {
			if r.IsLateArrival() {
				stats.LlegadasTarde++
			}
		}
	}

	if stats.DescansosOK {
		stats.DiasDescanso = descansos
		for _, d := range descansos {
			if models.IsLegitimateRest(d.Motivo) {
				stats.DescansosLegit++
			}
			stats.PorMotivo[d.Motivo]++
		}
	}

	return stats, nil
}

// Filter отбирает опоздания, законные дни отдыха или одну причину.
// servicioID > 0 оставляет только сотрудников этого сервиса (по полному имени)
func (s *DashboardService) Filter(ctx context.Context, ws *workspace.Workspace, kind string, servicioID int) (*Filtered, error) {
	out := &Filtered{}

	switch {
	case kind == FiltroTarde:
		out.Titulo = "⚠️ Llegadas Tarde Hoy"
		registros, err := s.attendance.Daily(ctx, ws, s.attendance.today(), false)
		if err != nil {
			return nil, err
		}
		for _, r := range registros {
			if r.IsLateArrival() {
				out.Registros = append(out.Registros, r)
			}
		}

	case kind == FiltroDescansoTotal || slices.Contains(models.Motivos, kind):
		out.Titulo = "📋 " + kind
		if kind == FiltroDescansoTotal {
			out.Titulo = "🏖️ Días de Descanso Legítimos"
		}
		descansos, err := s.restDays.List(ctx, ws, false)
		if err != nil {
			return nil, err
		}
		for _, d := range descansos {
			if (kind == FiltroDescansoTotal && models.IsLegitimateRest(d.Motivo)) || d.Motivo == kind {
				out.Descansos = append(out.Descansos, d)
			}
		}

	default:
		return nil, &ValidationError{Message: "Filtro no válido"}
	}

	if servicioID <= 0 {
		return out, nil
	}

	empleados, err := s.employees.ActiveRoster(ctx, ws, 0, false)
	if err != nil {
		return nil, err
	}
	inService := make(map[string]bool, len(empleados))
	for _, e := range empleados {
		if e.ServicioID == servicioID {
			inService[e.NombreCompleto()] = true
		}
	}

	out.Registros = slices.DeleteFunc(out.Registros, func(r models.Registro) bool {
		return !inService[r.NombreCompleto]
	})
	out.Descansos = slices.DeleteFunc(out.Descansos, func(d models.DiaDescanso) bool {
		return !inService[d.Nombre()]
	})
	return out, nil
}
