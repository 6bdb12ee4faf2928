package handler

import (
	"context"
	"strings"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(ctx context.Context, ws *workspace.Workspace, message *tgbotapi.Message) {
	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())

	switch command {
	case "ayuda", "help":
		h.sendHelp(ws)
	case "menu":
		h.showPage(ctx, ws, false)
	case "actualizar":
		h.refreshPage(ctx, ws)

	// Вход и выход
	case "login":
		h.startLogin(ctx, ws, message, args)
	case "salir", "logout":
		h.askConfirm(ws, actionLogout)
	case "yo":
		h.showProfile(ws)

	// Личные отметки
	case "hoy":
		h.showMyRecords(ctx, ws)
	case "entrada":
		h.askConfirm(ws, actionRegistro+string(models.TipoEntrada))
	case "salida":
		h.askConfirm(ws, actionRegistro+string(models.TipoSalida))
	case "salida_almuerzo":
		h.askConfirm(ws, actionRegistro+string(models.TipoSalidaAlmuerzo))
	case "entrada_almuerzo":
		h.askConfirm(ws, actionRegistro+string(models.TipoEntradaAlmuerzo))

	// Панель супервизора
	case "empleados":
		h.showEmpleados(ctx, ws, args)
	case "registrar":
		h.startRegisterFor(ctx, ws, args)
	case "registros":
		h.showRegistros(ctx, ws, args)
	case "descanso":
		h.startRestDay(ctx, ws, args)
	case "descansos":
		h.showRestDays(ctx, ws)
	case "falta":
		h.registerFalta(ctx, ws, args)
	case "faltas":
		h.showFaltas(ctx, ws)

	// Панель администратора
	case "stats":
		h.showStats(ctx, ws)
	case "filtro":
		h.filterCommand(ctx, ws, args)
	case "crear_empleado":
		h.createEmpleado(ctx, ws, message, args)
	case "activar_empleado":
		h.toggleEmpleado(ctx, ws, args, true)
	case "desactivar_empleado":
		h.toggleEmpleado(ctx, ws, args, false)
	case "servicios":
		h.showServicios(ctx, ws)
	case "crear_servicio":
		h.createServicio(ctx, ws, args)
	case "activar_servicio":
		h.toggleServicio(ctx, ws, args, true)
	case "desactivar_servicio":
		h.toggleServicio(ctx, ws, args, false)

	default:
		h.send(ws.ChatID, "❌ Comando desconocido. Usa /ayuda para ver la lista de comandos.")
	}
}

func (h *Handler) sendHelp(ws *workspace.Workspace) {
	var rol models.Rol
	if current := ws.Current(); current.HasSession() {
		rol = current.Rol
	}
	h.send(ws.ChatID, helpText(rol))
}

// authorize проверка роли перед командой; при отказе пользователь получает ошибку
func (h *Handler) authorize(ws *workspace.Workspace, roles []models.Rol) (*models.Empleado, bool) {
	current, err := h.services.Auth.Authorize(ws, roles)
	if err != nil {
		h.sendError(ws.ChatID, err)
		if current == nil {
			h.sendLoginPage(ws)
		}
		return nil, false
	}
	return current, true
}

// supervisorOnly действия панели супервизора, доступные и администратору
func (h *Handler) supervisorOnly(ws *workspace.Workspace) (*models.Empleado, bool) {
	return h.authorize(ws, auth.SupervisorRoles)
}

func (h *Handler) adminOnly(ws *workspace.Workspace) (*models.Empleado, bool) {
	return h.authorize(ws, auth.AdminRoles)
}
