package service

import (
	"context"

	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"
	"asistencia-bot/pkg/timefmt"

	"github.com/facebookgo/clock"
	"github.com/go-playground/validator/v10"
)

type registroForm struct {
	EmpleadoID int                 `validate:"required,gt=0"`
	Tipo       models.TipoRegistro `validate:"required,tipo_registro"`
}

var registroMessages = map[string]string{
	"EmpleadoID": "Selecciona un empleado",
	"Tipo":       "Tipo de registro no válido",
}

type AttendanceService struct {
	validate *validator.Validate
	clock    clock.Clock
}

func NewAttendanceService(clk clock.Clock) *AttendanceService {
	return &AttendanceService{
		validate: newValidator(),
		clock:    clk,
	}
}

// Register отмечает вход/выход сотрудника; Tarde - опоздание по ответу бэкенда
func (s *AttendanceService) Register(ctx context.Context, ws *workspace.Workspace, empleadoID int, tipo models.TipoRegistro) (*models.RegistroResultado, error) {
	form := registroForm{EmpleadoID: empleadoID, Tipo: tipo}
	if err := validate(s.validate, form, registroMessages, "Completa todos los campos"); err != nil {
		return nil, err
	}

	res := ws.Gateway.Call(ctx, "registrar_asistencia", gateway.Params{
		"empleado_id": empleadoID,
		"tipo":        string(tipo),
	})
	if !res.Success {
		return nil, backendError(res, "Error al registrar asistencia")
	}

	ws.Cache.Invalidate(cache.KeyMisRegistros, cache.KeyRegistros)

	return &models.RegistroResultado{
		Message: res.Message,
		Tarde:   res.Bool("tarde"),
	}, nil
}

// Today отметки сотрудника за сегодня
func (s *AttendanceService) Today(ctx context.Context, ws *workspace.Workspace, empleadoID int, force bool) ([]models.Registro, error) {
	return cachedList(ws.Cache, cache.KeyMisRegistros, force, func() ([]models.Registro, error) {
		res := ws.Gateway.Call(ctx, "obtener_registros_hoy", gateway.Params{
			"empleado_id": empleadoID,
		})
		if !res.Success {
			return nil, backendError(res, "Error al cargar registros")
		}
		return decodeList[models.Registro](res, "registros")
	})
}

// Daily отметки всех сотрудников за дату; пустая дата - все отметки.
// Кэшируется только сегодняшний список
func (s *AttendanceService) Daily(ctx context.Context, ws *workspace.Workspace, fecha string, force bool) ([]models.Registro, error) {
	if fecha != "" && !timefmt.ValidDate(fecha) {
		return nil, &ValidationError{Message: "Selecciona una fecha"}
	}

	load := func() ([]models.Registro, error) {
		params := gateway.Params{}
		if fecha != "" {
			params["fecha"] = fecha
		}
		res := ws.Gateway.Call(ctx, "obtener_todos_registros", params)
		if !res.Success {
			return nil, backendError(res, "Error al cargar registros")
		}
		return decodeList[models.Registro](res, "registros")
	}

	if fecha != s.today() {
		return load()
	}
	return cachedList(ws.Cache, cache.KeyRegistros, force, load)
}

func (s *AttendanceService) today() string {
	return timefmt.CurrentDate(s.clock.Now())
}
