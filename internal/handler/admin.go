package handler

import (
	"context"
	"fmt"
	"strings"

	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// showEmpleados супервизор видит активных сотрудников своего сервиса,
// администратор весь список с состоянием
func (h *Handler) showEmpleados(ctx context.Context, ws *workspace.Workspace, args string) {
	current, ok := h.supervisorOnly(ws)
	if !ok {
		return
	}

	if current.Rol == models.RolAdmin && !strings.EqualFold(args, "activos") {
		h.sendRoster(ctx, ws)
		return
	}

	empleados, err := h.services.Employees.ActiveRoster(ctx, ws, supervisedService(current), false)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}
	h.send(ws.ChatID, formatEmpleados(empleados, false))
}

func (h *Handler) sendRoster(ctx context.Context, ws *workspace.Workspace) {
	empleados, err := h.services.Employees.Roster(ctx, ws, false)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}
	h.send(ws.ChatID, formatEmpleados(empleados, true))
}

const createEmpleadoUsage = `✏️ Uso: /crear_empleado nombre;apellido;usuario;pin;rol;servicio_id;hora_entrada;hora_salida
Rol: empleado, supervisor o admin (por defecto empleado)
Horario opcional en formato HH:MM
Ejemplo: /crear_empleado Ana;López;alopez;1234;empleado;2;08:00;17:00`

// createEmpleado /crear_empleado с полями через ';'
func (h *Handler) createEmpleado(ctx context.Context, ws *workspace.Workspace, message *tgbotapi.Message, args string) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	parts := splitArgs(args, ";")
	if len(parts) < 6 {
		text := createEmpleadoUsage
		if servicios, err := h.services.Catalog.Active(ctx, ws); err == nil {
			text += "\n\n" + formatServicios(servicios)
		}
		h.send(ws.ChatID, text)
		return
	}

	// в сообщении PIN
	h.deleteMessage(ws.ChatID, message.MessageID)

	input := models.NuevoEmpleado{
		Nombre:     parts[0],
		Apellido:   parts[1],
		Usuario:    parts[2],
		PIN:        parts[3],
		Rol:        models.Rol(strings.ToLower(parts[4])),
		ServicioID: atoi(parts[5]),
	}
	if len(parts) > 6 {
		input.HoraEntrada = parts[6]
	}
	if len(parts) > 7 {
		input.HoraSalida = parts[7]
	}

	h.mutate(ws, func() {
		msg, err := h.services.Employees.Create(ctx, ws, input)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		if msg == "" {
			msg = "Empleado creado"
		}
		h.sendSuccess(ws.ChatID, msg)
		h.sendRoster(ctx, ws)
	})
}

func (h *Handler) toggleEmpleado(ctx context.Context, ws *workspace.Workspace, args string, activo bool) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	id := atoi(args)
	if id <= 0 {
		h.send(ws.ChatID, "❌ Selecciona un empleado")
		h.sendRoster(ctx, ws)
		return
	}

	action := actionEmpleadoOff
	if activo {
		action = actionEmpleadoOn
	}
	h.askConfirm(ws, fmt.Sprintf("%s%d", action, id))
}

func (h *Handler) setEmpleadoActivo(ctx context.Context, ws *workspace.Workspace, id int, activo bool) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	h.mutate(ws, func() {
		msg, err := h.services.Employees.SetActive(ctx, ws, id, activo)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		if msg == "" {
			msg = "Empleado actualizado"
		}
		h.sendSuccess(ws.ChatID, msg)
		h.sendRoster(ctx, ws)
	})
}

func (h *Handler) showServicios(ctx context.Context, ws *workspace.Workspace) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}
	h.sendServicios(ctx, ws)
}

func (h *Handler) sendServicios(ctx context.Context, ws *workspace.Workspace) {
	servicios, err := h.services.Catalog.List(ctx, ws, false)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}
	h.send(ws.ChatID, formatServicios(servicios))
}

// createServicio /crear_servicio nombre;descripcion
func (h *Handler) createServicio(ctx context.Context, ws *workspace.Workspace, args string) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	parts := splitArgs(args, ";")
	if len(parts) == 0 || parts[0] == "" {
		h.send(ws.ChatID, "✏️ Uso: /crear_servicio nombre;descripción")
		return
	}
	descripcion := ""
	if len(parts) > 1 {
		descripcion = parts[1]
	}

	h.mutate(ws, func() {
		msg, err := h.services.Catalog.Create(ctx, ws, parts[0], descripcion)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		if msg == "" {
			msg = "Servicio creado"
		}
		h.sendSuccess(ws.ChatID, msg)
		h.sendServicios(ctx, ws)
	})
}

func (h *Handler) toggleServicio(ctx context.Context, ws *workspace.Workspace, args string, activo bool) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	id := atoi(args)
	if id <= 0 {
		h.send(ws.ChatID, "❌ Selecciona un servicio")
		h.sendServicios(ctx, ws)
		return
	}

	action := actionServicioOff
	if activo {
		action = actionServicioOn
	}
	h.askConfirm(ws, fmt.Sprintf("%s%d", action, id))
}

func (h *Handler) setServicioActivo(ctx context.Context, ws *workspace.Workspace, id int, activo bool) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	h.mutate(ws, func() {
		msg, err := h.services.Catalog.SetActive(ctx, ws, id, activo)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		if msg == "" {
			msg = "Servicio actualizado"
		}
		h.sendSuccess(ws.ChatID, msg)
		h.sendServicios(ctx, ws)
	})
}

func (h *Handler) showStats(ctx context.Context, ws *workspace.Workspace) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	stats, err := h.services.Dashboard.Stats(ctx, ws)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}
	h.sendWithKeyboard(ws.ChatID, formatStats(stats), filtroKeyboard(""))
}

// filterCommand /filtro <tarde|descanso-total|motivo> [servicio_id]
func (h *Handler) filterCommand(ctx context.Context, ws *workspace.Workspace, args string) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.sendWithKeyboard(ws.ChatID, "✏️ Uso: /filtro <tarde|descanso-total|motivo> [servicio_id]", filtroKeyboard(""))
		return
	}

	servicioID := 0
	if len(fields) > 1 {
		if id := atoi(fields[len(fields)-1]); id > 0 {
			servicioID = id
			fields = fields[:len(fields)-1]
		}
	}

	code := strings.ToLower(strings.Join(fields, " "))
	if code == "descansos" {
		code = filtroCodeDescanso
	}
	if idx := motivoIndex(code); idx >= 0 {
		code = fmt.Sprintf("m%d", idx)
	}

	h.showFiltered(ctx, ws, code, servicioID)
}

// showFiltered детализация карточки статистики с выбором сервиса
func (h *Handler) showFiltered(ctx context.Context, ws *workspace.Workspace, code string, servicioID int) {
	if _, ok := h.adminOnly(ws); !ok {
		return
	}

	out, err := h.services.Dashboard.Filter(ctx, ws, filtroKind(code), servicioID)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}

	var text string
	switch {
	case out.Len() == 0:
		text = out.Titulo + "\nNo hay registros para mostrar"
	case len(out.Registros) > 0:
		text = formatRegistros(out.Titulo, out.Registros)
	default:
		text = formatDescansos(out.Titulo, out.Descansos)
	}

	h.sendWithKeyboard(ws.ChatID, text, h.servicioKeyboard(ctx, ws, code))
}

// servicioKeyboard кнопки фильтра по активным сервисам
func (h *Handler) servicioKeyboard(ctx context.Context, ws *workspace.Workspace, code string) tgbotapi.InlineKeyboardMarkup {
	servicios, err := h.services.Catalog.Active(ctx, ws)
	if err != nil || len(servicios) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏢 Todos los servicios", filtroPrefix+code)),
	}
	var row []tgbotapi.InlineKeyboardButton
	for _, s := range servicios {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(s.Nombre, fmt.Sprintf("%s%s:%d", filtroPrefix, code, s.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func splitArgs(args, sep string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
