package service

import (
	"context"
	"strings"

	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var empleadoMessages = map[string]string{
	"PIN.len":              "El PIN debe ser de 4 dígitos",
	"PIN.number":           "El PIN debe ser de 4 dígitos",
	"Rol.oneof":            "Rol no válido",
	"HoraEntrada.datetime": "Horario no válido (HH:MM)",
	"HoraSalida.datetime":  "Horario no válido (HH:MM)",
}

const msgCamposObligatorios = "Completa todos los campos obligatorios"

type EmployeeService struct {
	validate *validator.Validate
	logger   *logrus.Entry
}

func NewEmployeeService() *EmployeeService {
	return &EmployeeService{
		validate: newValidator(),
		logger:   logrus.WithField("component", "employees"),
	}
}

// Roster все сотрудники, включая неактивных
func (s *EmployeeService) Roster(ctx context.Context, ws *workspace.Workspace, force bool) ([]models.Empleado, error) {
	return cachedList(ws.Cache, cache.KeyEmpleados, force, func() ([]models.Empleado, error) {
		return s.list(ctx, ws, gateway.Params{"solo_activos": false})
	})
}

// activeRoster список активных вместе с сервисом, для которого он загружен
type activeRoster struct {
	servicioID int
	empleados  []models.Empleado
}

// ActiveRoster активные сотрудники; servicioID > 0 ограничивает одним сервисом.
// Кэш под одним ключом: список другого сервиса считается промахом
func (s *EmployeeService) ActiveRoster(ctx context.Context, ws *workspace.Workspace, servicioID int, force bool) ([]models.Empleado, error) {
	if !force {
		if v, ok := cache.Lookup[activeRoster](ws.Cache, cache.KeyEmpleadosActivos); ok && v.servicioID == servicioID {
			return v.empleados, nil
		}
	}

	params := gateway.Params{"solo_activos": true}
	if servicioID > 0 {
		params["servicio_id"] = servicioID
	}
	empleados, err := s.list(ctx, ws, params)
	if err != nil {
		return nil, err
	}
	ws.Cache.Set(cache.KeyEmpleadosActivos, activeRoster{servicioID: servicioID, empleados: empleados})
	return empleados, nil
}

func (s *EmployeeService) list(ctx context.Context, ws *workspace.Workspace, params gateway.Params) ([]models.Empleado, error) {
	res := ws.Gateway.Call(ctx, "listar_empleados", params)
	if !res.Success {
		return nil, backendError(res, "Error al cargar empleados")
	}
	return decodeList[models.Empleado](res, "empleados")
}

// Create создает сотрудника и сбрасывает кэш списков
func (s *EmployeeService) Create(ctx context.Context, ws *workspace.Workspace, input models.NuevoEmpleado) (string, error) {
	input.Nombre = strings.TrimSpace(input.Nombre)
	input.Apellido = strings.TrimSpace(input.Apellido)
	input.Usuario = strings.TrimSpace(input.Usuario)
	input.PIN = strings.TrimSpace(input.PIN)
	if input.Rol == "" {
		input.Rol = models.RolEmpleado
	}

	if err := validate(s.validate, input, empleadoMessages, msgCamposObligatorios); err != nil {
		return "", err
	}

	res := ws.Gateway.Call(ctx, "crear_empleado", gateway.Params{
		"data": input,
	})
	if !res.Success {
		return "", backendError(res, "Error al crear empleado")
	}

	ws.Cache.Invalidate(cache.KeyEmpleados, cache.KeyEmpleadosActivos)
	s.logger.WithFields(logrus.Fields{
		"empresa": ws.Tenant.ID,
		"usuario": input.Usuario,
	}).Info("employee created")

	return res.Message, nil
}

// SetActive активирует или деактивирует сотрудника
func (s *EmployeeService) SetActive(ctx context.Context, ws *workspace.Workspace, empleadoID int, activo bool) (string, error) {
	if empleadoID <= 0 {
		return "", &ValidationError{Message: "Selecciona un empleado"}
	}

	action, fallback := "desactivar_empleado", "Error al desactivar empleado"
	if activo {
		action, fallback = "activar_empleado", "Error al activar empleado"
	}

	res := ws.Gateway.Call(ctx, action, gateway.Params{"empleado_id": empleadoID})
	if !res.Success {
		return "", backendError(res, fallback)
	}

	ws.Cache.Invalidate(cache.KeyEmpleados, cache.KeyEmpleadosActivos)
	return res.Message, nil
}
