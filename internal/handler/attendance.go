package handler

import (
	"context"
	"fmt"
	"strings"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"
	"asistencia-bot/pkg/timefmt"
)

// registerOwn личная отметка после подтверждения
func (h *Handler) registerOwn(ctx context.Context, ws *workspace.Workspace, tipo models.TipoRegistro) {
	current, ok := h.authorize(ws, auth.PersonalRoles)
	if !ok {
		return
	}

	h.mutate(ws, func() {
		res, err := h.services.Attendance.Register(ctx, ws, current.ID, tipo)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		h.sendRegistroResult(ws.ChatID, res)

		registros, err := h.services.Attendance.Today(ctx, ws, current.ID, false)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		h.sendWithKeyboard(ws.ChatID, formatMisRegistros(registros), registroKeyboard())
	})
}

func (h *Handler) sendRegistroResult(chatID int64, res *models.RegistroResultado) {
	message := res.Message
	if message == "" {
		message = "Asistencia registrada"
	}
	if res.Tarde {
		h.sendWarning(chatID, message)
		return
	}
	h.sendSuccess(chatID, message)
}

func (h *Handler) showMyRecords(ctx context.Context, ws *workspace.Workspace) {
	current, ok := h.authorize(ws, auth.PersonalRoles)
	if !ok {
		return
	}

	registros, err := h.services.Attendance.Today(ctx, ws, current.ID, false)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}
	h.sendWithKeyboard(ws.ChatID, formatMisRegistros(registros), registroKeyboard())
}

// startRegisterFor /registrar <id> <tipo>: отметка за сотрудника
func (h *Handler) startRegisterFor(ctx context.Context, ws *workspace.Workspace, args string) {
	current, ok := h.supervisorOnly(ws)
	if !ok {
		return
	}

	fields := strings.Fields(args)
	if len(fields) != 2 {
		text := "✏️ Uso: /registrar <id> <tipo>\nTipos: " + tiposList()
		if empleados, err := h.services.Employees.ActiveRoster(ctx, ws, supervisedService(current), false); err == nil {
			text += "\n\n" + formatEmpleados(empleados, false)
		}
		h.send(ws.ChatID, text)
		return
	}

	empleadoID := atoi(fields[0])
	tipo := models.TipoRegistro(strings.ToLower(fields[1]))
	if empleadoID <= 0 {
		h.send(ws.ChatID, "❌ Selecciona un empleado")
		return
	}
	if !tipo.Valid() {
		h.send(ws.ChatID, "❌ Tipo de registro no válido\nTipos: "+tiposList())
		return
	}

	h.askConfirm(ws, fmt.Sprintf("%s%d:%s", actionRegistroPara, empleadoID, tipo))
}

func (h *Handler) registerFor(ctx context.Context, ws *workspace.Workspace, empleadoID int, tipo models.TipoRegistro) {
	if _, ok := h.supervisorOnly(ws); !ok {
		return
	}

	h.mutate(ws, func() {
		res, err := h.services.Attendance.Register(ctx, ws, empleadoID, tipo)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		h.sendRegistroResult(ws.ChatID, res)

		registros, err := h.services.Attendance.Daily(ctx, ws, h.services.CurrentDate(), false)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		h.send(ws.ChatID, formatRegistros("🕐 Registros de hoy (todos):", registros))
	})
}

// showRegistros /registros [fecha|todos]
func (h *Handler) showRegistros(ctx context.Context, ws *workspace.Workspace, args string) {
	if _, ok := h.supervisorOnly(ws); !ok {
		return
	}

	fecha := h.services.CurrentDate()
	titulo := "🕐 Registros de hoy (todos):"
	switch arg := strings.TrimSpace(args); {
	case strings.EqualFold(arg, "todos"):
		fecha = ""
		titulo = "🕐 Todos los registros:"
	case arg != "":
		fecha = arg
		titulo = "🕐 Registros del " + timefmt.FormatDate(arg) + ":"
	}

	registros, err := h.services.Attendance.Daily(ctx, ws, fecha, false)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}
	h.send(ws.ChatID, formatRegistros(titulo, registros))
}

// supervisedService супервизор видит только свой сервис, администратор все
func supervisedService(current *models.Empleado) int {
	if current.Rol == models.RolSupervisor {
		return current.ServicioID
	}
	return 0
}

func tiposList() string {
	tipos := make([]string, 0, len(models.TiposRegistro))
	for _, t := range models.TiposRegistro {
		tipos = append(tipos, string(t))
	}
	return strings.Join(tipos, ", ")
}
