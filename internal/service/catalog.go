package service

import (
	"context"
	"strings"

	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"
)

// CatalogService справочник сервисов (подразделений)
type CatalogService struct{}

func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

func (s *CatalogService) List(ctx context.Context, ws *workspace.Workspace, force bool) ([]models.Servicio, error) {
	return cachedList(ws.Cache, cache.KeyServicios, force, func() ([]models.Servicio, error) {
		res := ws.Gateway.Call(ctx, "listar_servicios", gateway.Params{"solo_activos": false})
		if !res.Success {
			return nil, backendError(res, "Error al cargar servicios")
		}
		return decodeList[models.Servicio](res, "servicios")
	})
}

// Active только активные сервисы, из того же кэша
func (s *CatalogService) Active(ctx context.Context, ws *workspace.Workspace) ([]models.Servicio, error) {
	all, err := s.List(ctx, ws, false)
	if err != nil {
		return nil, err
	}

	active := make([]models.Servicio, 0, len(all))
	for _, srv := range all {
		if srv.Activo {
			active = append(active, srv)
		}
	}
	return active, nil
}

func (s *CatalogService) Create(ctx context.Context, ws *workspace.Workspace, nombre, descripcion string) (string, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return "", &ValidationError{Message: "El nombre del servicio es obligatorio"}
	}

	res := ws.Gateway.Call(ctx, "crear_servicio", gateway.Params{
		"data": map[string]string{
			"nombre":      nombre,
			"descripcion": strings.TrimSpace(descripcion),
		},
	})
	if !res.Success {
		return "", backendError(res, "Error al crear servicio")
	}

	ws.Cache.Invalidate(cache.KeyServicios)
	return res.Message, nil
}

func (s *CatalogService) SetActive(ctx context.Context, ws *workspace.Workspace, servicioID int, activo bool) (string, error) {
	if servicioID <= 0 {
		return "", &ValidationError{Message: "Selecciona un servicio"}
	}

	action, fallback := "desactivar_servicio", "Error al desactivar servicio"
	if activo {
		action, fallback = "activar_servicio", "Error al activar servicio"
	}

	res := ws.Gateway.Call(ctx, action, gateway.Params{"servicio_id": servicioID})
	if !res.Success {
		return "", backendError(res, fallback)
	}

	ws.Cache.Invalidate(cache.KeyServicios)
	return res.Message, nil
}
