package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/config"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// handleStart переход по QR-коду: /start <empresa>
func (h *Handler) handleStart(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	h.clearState(chatID)

	tenantID := strings.TrimSpace(message.CommandArguments())
	ws, err := h.workspaces.Open(chatID, tenantID)
	if errors.Is(err, config.ErrUnknownTenant) {
		h.send(chatID, fmt.Sprintf("❌ Empresa no válida: %s\nEmpresas disponibles: %s",
			tenantID, strings.Join(h.workspaces.Registry().IDs(), ", ")))
		return
	}
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("failed to open workspace")
		h.send(chatID, "❌ "+gateway.MsgConnection)
		return
	}

	if _, nav, ok := h.services.Auth.Resume(ws); ok {
		logrus.WithField("chat_id", chatID).Debugf("session resumed, redirect to %s", nav.Path())
		h.openPage(ctx, ws, nav.Page, false)
		return
	}
	h.sendLoginPage(ws)
}

// showPage перерисовывает текущую страницу чата
func (h *Handler) showPage(ctx context.Context, ws *workspace.Workspace, force bool) {
	page := ws.Page()
	if page == auth.PageLogin {
		_, nav, ok := h.services.Auth.Resume(ws)
		if !ok {
			h.sendLoginPage(ws)
			return
		}
		page = nav.Page
	}
	h.openPage(ctx, ws, page, force)
}

// openPage открывает страницу через проверку ролей; при отказе ведет на редирект
func (h *Handler) openPage(ctx context.Context, ws *workspace.Workspace, page auth.Page, force bool) {
	current, nav, ok := h.services.Auth.Enter(ws, page)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"chat_id": ws.ChatID,
			"page":    page,
		}).Debugf("access denied, redirect to %s", nav.Path())

		if nav.Page == auth.PageLogin {
			h.sendLoginPage(ws)
			return
		}
		if current, _, ok = h.services.Auth.Enter(ws, nav.Page); !ok {
			h.sendLoginPage(ws)
			return
		}
		page = nav.Page
	}

	switch page {
	case auth.PageAdmin:
		h.renderAdmin(ctx, ws, current, force)
	case auth.PageSupervisor:
		h.renderSupervisor(ctx, ws, current, force)
	default:
		h.renderDashboard(ctx, ws, current, force)
	}
}

func (h *Handler) sendLoginPage(ws *workspace.Workspace) {
	var b strings.Builder
	b.WriteString(header(auth.PageLogin.Title()))
	fmt.Fprintf(&b, "\n🏢 %s", ws.Tenant.Nombre)

	if !ws.Tenant.Configured() {
		b.WriteString("\n\n⚠️ " + gateway.MsgNotConfigured)
	} else {
		b.WriteString("\n\nUsa /login para entrar con tu usuario y PIN.")
	}
	if link := h.deepLink(ws.Tenant.ID); link != "" {
		fmt.Fprintf(&b, "\n\n🔗 %s", link)
	}

	h.send(ws.ChatID, b.String())
}

// deepLink ссылка, которую кодирует QR компании
func (h *Handler) deepLink(tenantID string) string {
	if h.config == nil || h.config.BotUsername == "" || tenantID == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", h.config.BotUsername, tenantID)
}

func (h *Handler) renderDashboard(ctx context.Context, ws *workspace.Workspace, current *models.Empleado, force bool) {
	text := header(auth.PageDashboard.Title()) + "\n\n" + formatEmpleadoInfo(current, h.services.CurrentDate())

	registros, err := h.services.Attendance.Today(ctx, ws, current.ID, force)
	if err != nil {
		h.sendError(ws.ChatID, err)
	} else {
		text += "\n\n" + formatMisRegistros(registros)
	}

	h.sendWithKeyboard(ws.ChatID, text, registroKeyboard())
}

func (h *Handler) renderSupervisor(ctx context.Context, ws *workspace.Workspace, current *models.Empleado, force bool) {
	text := header(auth.PageSupervisor.Title()) + "\n\n" + formatEmpleadoInfo(current, h.services.CurrentDate())

	// у администратора на этой странице нет личных отметок
	if current.Rol == models.RolSupervisor {
		if registros, err := h.services.Attendance.Today(ctx, ws, current.ID, force); err == nil {
			text += "\n\n" + formatMisRegistros(registros)
		}
	}

	registros, err := h.services.Attendance.Daily(ctx, ws, h.services.CurrentDate(), force)
	if err != nil {
		h.sendError(ws.ChatID, err)
	} else {
		text += "\n\n" + formatRegistros("🕐 Registros de hoy (todos):", registros)
	}
	text += "\n\n" + supervisorHelp

	if current.Rol == models.RolSupervisor {
		h.sendWithKeyboard(ws.ChatID, text, registroKeyboard())
		return
	}
	h.sendWithKeyboard(ws.ChatID, text, menuKeyboard())
}

func (h *Handler) renderAdmin(ctx context.Context, ws *workspace.Workspace, current *models.Empleado, force bool) {
	if force {
		ws.Cache.Invalidate()
	}

	text := header(auth.PageAdmin.Title()) + "\n\n" + formatEmpleadoInfo(current, h.services.CurrentDate())

	stats, err := h.services.Dashboard.Stats(ctx, ws)
	if err != nil {
		h.sendError(ws.ChatID, err)
	} else {
		text += "\n\n" + formatStats(stats)
	}
	text += "\n\n" + adminHelp

	h.sendWithKeyboard(ws.ChatID, text, filtroKeyboard(""))
}

func registroKeyboard() tgbotapi.InlineKeyboardMarkup {
	button := func(tipo models.TipoRegistro) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(tipoIcon(tipo)+" "+tipo.Nombre(), askPrefix+actionRegistro+string(tipo))
	}

	t := models.TiposRegistro
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(t[0]), button(t[1])),
		tgbotapi.NewInlineKeyboardRow(button(t[2]), button(t[3])),
		menuRow(),
	)
}

func menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(menuRow())
}

func menuRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Actualizar", callbackRefresh),
		tgbotapi.NewInlineKeyboardButtonData("🚪 Cerrar sesión", askPrefix+actionLogout),
	)
}

// filtroKeyboard карточки статистики; suffix добавляет фильтр по сервису
func filtroKeyboard(suffix string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚠️ Llegadas tarde", filtroPrefix+filtroCodeTarde+suffix),
			tgbotapi.NewInlineKeyboardButtonData("🏖️ Descansos", filtroPrefix+filtroCodeDescanso+suffix),
		),
	}

	var row []tgbotapi.InlineKeyboardButton
	for i, motivo := range models.Motivos {
		if motivo == models.MotivoDescanso || motivo == models.MotivoDiaFestivo {
			continue
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(motivo, fmt.Sprintf("%sm%d%s", filtroPrefix, i, suffix)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, menuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tipoIcon(tipo models.TipoRegistro) string {
	switch tipo {
	case models.TipoEntrada:
		return "🟢"
	case models.TipoSalida:
		return "🔴"
	case models.TipoSalidaAlmuerzo:
		return "🍽️"
	}
	return "☕"
}

const loginHelp = `🔐 Acceso:
/start <empresa> - Abrir la empresa del código QR
/login - Iniciar sesión con usuario y PIN
/salir - Cerrar sesión`

const employeeHelp = `🕐 Mi asistencia:
/menu - Mostrar mi panel
/hoy - Mis registros de hoy
/entrada, /salida_almuerzo, /entrada_almuerzo, /salida - Registrar asistencia`

const supervisorHelp = `👥 Supervisor:
/empleados - Empleados activos
/registrar <id> <tipo> - Registrar asistencia de un empleado
/registros [fecha|todos] - Registros del día
/descanso <id> <fecha> [motivo] - Programar día de descanso
/descansos - Días de descanso programados
/falta <id> <fecha> <motivo> - Registrar falta
/faltas - Faltas registradas`

const adminHelp = `⚙️ Administración:
/stats - Estadísticas de hoy
/filtro <tarde|descanso-total|motivo> [servicio_id] - Detalle de estadísticas
/empleados - Todos los empleados
/crear_empleado - Crear empleado
/activar_empleado <id>, /desactivar_empleado <id>
/servicios - Todos los servicios
/crear_servicio nombre;descripción - Crear servicio
/activar_servicio <id>, /desactivar_servicio <id>`

func helpText(rol models.Rol) string {
	parts := []string{"🤖 Comandos disponibles:", loginHelp}
	switch rol {
	case models.RolEmpleado:
		parts = append(parts, employeeHelp)
	case models.RolSupervisor:
		parts = append(parts, employeeHelp, supervisorHelp)
	case models.RolAdmin:
		parts = append(parts, supervisorHelp, adminHelp)
	}
	return strings.Join(parts, "\n\n")
}
