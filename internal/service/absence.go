// internal/service/absence.go
package service

import (
	"context"
	"strings"

	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"

	"github.com/go-playground/validator/v10"
)

// ausenciaForm общая форма дня отдыха и пропуска
type ausenciaForm struct {
	EmpleadoID int    `validate:"required,gt=0"`
	Fecha      string `validate:"required,datetime=2006-01-02"`
	Motivo     string `validate:"required,motivo"`
}

var ausenciaMessages = map[string]string{
	"Fecha.datetime": "Fecha no válida (AAAA-MM-DD)",
	"Motivo.motivo":  "Motivo no válido",
}

func newAusenciaForm(empleadoID int, fecha, motivo string) ausenciaForm {
	return ausenciaForm{
		EmpleadoID: empleadoID,
		Fecha:      strings.TrimSpace(fecha),
		Motivo:     strings.TrimSpace(motivo),
	}
}

func (f ausenciaForm) params() gateway.Params {
	return gateway.Params{
		"empleado_id": f.EmpleadoID,
		"fecha":       f.Fecha,
		"motivo":      f.Motivo,
	}
}

// RestDayService дни отдыха
type RestDayService struct {
	validate *validator.Validate
}

func NewRestDayService() *RestDayService {
	return &RestDayService{validate: newValidator()}
}

func (s *RestDayService) Schedule(ctx context.Context, ws *workspace.Workspace, empleadoID int, fecha, motivo string) (string, error) {
	form := newAusenciaForm(empleadoID, fecha, motivo)
	if form.Motivo == "" {
		form.Motivo = models.MotivoDescanso
	}
	if err := validate(s.validate, form, ausenciaMessages, "Completa todos los campos"); err != nil {
		return "", err
	}

	res := ws.Gateway.Call(ctx, "programar_dia_descanso", form.params())
	if !res.Success {
		return "", backendError(res, "Error al programar día de descanso")
	}

	ws.Cache.Invalidate(cache.KeyDiasDescanso)
	return res.Message, nil
}

func (s *RestDayService) List(ctx context.Context, ws *workspace.Workspace, force bool) ([]models.DiaDescanso, error) {
	return cachedList(ws.Cache, cache.KeyDiasDescanso, force, func() ([]models.DiaDescanso, error) {
		res := ws.Gateway.Call(ctx, "obtener_todos_dias_descanso", nil)
		if !res.Success {
			return nil, backendError(res, "Error al cargar días de descanso")
		}
		return decodeList[models.DiaDescanso](res, "dias_descanso")
	})
}

// AbsenceService пропуски (faltas)
type AbsenceService struct {
	validate *validator.Validate
}

func NewAbsenceService() *AbsenceService {
	return &AbsenceService{validate: newValidator()}
}

func (s *AbsenceService) Register(ctx context.Context, ws *workspace.Workspace, empleadoID int, fecha, motivo string) (string, error) {
	form := newAusenciaForm(empleadoID, fecha, motivo)
	if err := validate(s.validate, form, ausenciaMessages, "Completa todos los campos"); err != nil {
		return "", err
	}

	res := ws.Gateway.Call(ctx, "registrar_falta", form.params())
	if !res.Success {
		return "", backendError(res, "Error al registrar falta")
	}

	ws.Cache.Invalidate(cache.KeyFaltas)
	return res.Message, nil
}

func (s *AbsenceService) List(ctx context.Context, ws *workspace.Workspace, force bool) ([]models.Falta, error) {
	return cachedList(ws.Cache, cache.KeyFaltas, force, func() ([]models.Falta, error) {
		res := ws.Gateway.Call(ctx, "obtener_faltas", nil)
		if !res.Success {
			return nil, backendError(res, "Error al cargar faltas")
		}
		return decodeList[models.Falta](res, "faltas")
	})
}
