package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"asistencia-bot/internal/inactivity"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/service"
	"asistencia-bot/internal/workspace"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Протокол данных inline кнопок:
// ask|<action> - спросить подтверждение, do|<action> - выполнить
const (
	askPrefix       = "ask|"
	doPrefix        = "do|"
	callbackCancel  = "cancel"
	callbackRefresh = "refresh"

	filtroPrefix       = "filtro:"
	filtroCodeTarde    = "tarde"
	filtroCodeDescanso = "descanso-total"

	actionRegistro     = "reg:"
	actionRegistroPara = "regemp:"
	actionLogout       = "logout"
	actionEmpleadoOn   = "emp_on:"
	actionEmpleadoOff  = "emp_off:"
	actionServicioOn   = "srv_on:"
	actionServicioOff  = "srv_off:"
	actionDescanso     = "dd:"
)

func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Отвечаем на callback, чтобы убрать "часики"
	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("failed to answer callback")
	}

	ws := h.workspaces.Get(chatID)
	ws.Touch(inactivity.Click)
	h.clearState(chatID)

	logrus.WithFields(logrus.Fields{
		"chat_id": chatID,
		"data":    data,
	}).Debug("callback")

	switch {
	case data == callbackRefresh:
		h.refreshPage(ctx, ws)
	case data == callbackCancel:
		h.removeKeyboard(chatID, callback.Message.MessageID)
		h.send(chatID, "❌ Acción cancelada")
	case strings.HasPrefix(data, askPrefix):
		h.askConfirm(ws, strings.TrimPrefix(data, askPrefix))
	case strings.HasPrefix(data, doPrefix):
		// убираем кнопки, чтобы подтверждение нельзя было нажать дважды
		h.removeKeyboard(chatID, callback.Message.MessageID)
		h.runAction(ctx, ws, strings.TrimPrefix(data, doPrefix))
	case strings.HasPrefix(data, filtroPrefix):
		code, servicioID := parseFiltro(strings.TrimPrefix(data, filtroPrefix))
		h.showFiltered(ctx, ws, code, servicioID)
	default:
		h.send(chatID, "❌ Acción desconocida")
	}
}

func (h *Handler) removeKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("failed to remove keyboard")
	}
}

// refreshPage ручное обновление: данные страницы грузятся заново
func (h *Handler) refreshPage(ctx context.Context, ws *workspace.Workspace) {
	h.showPage(ctx, ws, true)
}

// askConfirm диалог подтверждения перед изменяющим действием
func (h *Handler) askConfirm(ws *workspace.Workspace, action string) {
	question, ok := confirmQuestion(action)
	if !ok {
		h.send(ws.ChatID, "❌ Acción desconocida")
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Sí", doPrefix+action),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", callbackCancel),
		),
	)
	h.sendWithKeyboard(ws.ChatID, question, keyboard)
}

func confirmQuestion(action string) (string, bool) {
	switch {
	case strings.HasPrefix(action, actionRegistro):
		tipo := models.TipoRegistro(strings.TrimPrefix(action, actionRegistro))
		return fmt.Sprintf("¿Registrar %s?", upper.String(tipo.Nombre())), true
	case strings.HasPrefix(action, actionRegistroPara):
		return "¿Registrar asistencia para este empleado?", true
	case action == actionLogout:
		return "¿Cerrar sesión?", true
	case strings.HasPrefix(action, actionEmpleadoOn):
		return "¿Activar este empleado?", true
	case strings.HasPrefix(action, actionEmpleadoOff):
		return "¿Desactivar este empleado?", true
	case strings.HasPrefix(action, actionServicioOn):
		return "¿Activar este servicio?", true
	case strings.HasPrefix(action, actionServicioOff):
		return "¿Desactivar este servicio?", true
	case strings.HasPrefix(action, actionDescanso):
		return "¿Programar día de descanso?", true
	}
	return "", false
}

// runAction выполняет подтвержденное действие
func (h *Handler) runAction(ctx context.Context, ws *workspace.Workspace, action string) {
	switch {
	case strings.HasPrefix(action, actionRegistro):
		h.registerOwn(ctx, ws, models.TipoRegistro(strings.TrimPrefix(action, actionRegistro)))
	case strings.HasPrefix(action, actionRegistroPara):
		args := strings.SplitN(strings.TrimPrefix(action, actionRegistroPara), ":", 2)
		if len(args) != 2 {
			h.send(ws.ChatID, "❌ Acción desconocida")
			return
		}
		h.registerFor(ctx, ws, atoi(args[0]), models.TipoRegistro(args[1]))
	case action == actionLogout:
		h.logout(ws)
	case strings.HasPrefix(action, actionEmpleadoOn):
		h.setEmpleadoActivo(ctx, ws, atoi(strings.TrimPrefix(action, actionEmpleadoOn)), true)
	case strings.HasPrefix(action, actionEmpleadoOff):
		h.setEmpleadoActivo(ctx, ws, atoi(strings.TrimPrefix(action, actionEmpleadoOff)), false)
	case strings.HasPrefix(action, actionServicioOn):
		h.setServicioActivo(ctx, ws, atoi(strings.TrimPrefix(action, actionServicioOn)), true)
	case strings.HasPrefix(action, actionServicioOff):
		h.setServicioActivo(ctx, ws, atoi(strings.TrimPrefix(action, actionServicioOff)), false)
	case strings.HasPrefix(action, actionDescanso):
		args := strings.SplitN(strings.TrimPrefix(action, actionDescanso), ":", 3)
		if len(args) != 3 {
			h.send(ws.ChatID, "❌ Acción desconocida")
			return
		}
		h.scheduleRestDay(ctx, ws, atoi(args[0]), args[1], motivoAt(atoi(args[2])))
	default:
		h.send(ws.ChatID, "❌ Acción desconocida")
	}
}

// mutate изменяющий запрос; повторное нажатие во время запроса отклоняется
func (h *Handler) mutate(ws *workspace.Workspace, fn func()) {
	if !ws.TryBegin() {
		h.send(ws.ChatID, "⏳ Procesando, espera un momento...")
		return
	}
	defer ws.End()
	fn()
}

// parseFiltro разбирает "<код>[:<servicio_id>]"
func parseFiltro(data string) (string, int) {
	code, srv, found := strings.Cut(data, ":")
	if !found {
		return code, 0
	}
	return code, atoi(srv)
}

// filtroKind код кнопки в вид фильтра статистики
func filtroKind(code string) string {
	switch code {
	case filtroCodeTarde:
		return service.FiltroTarde
	case filtroCodeDescanso:
		return service.FiltroDescansoTotal
	}
	if idx, ok := strings.CutPrefix(code, "m"); ok {
		if motivo := motivoAt(atoi(idx)); motivo != "" {
			return motivo
		}
	}
	return code
}

func motivoAt(i int) string {
	if i < 0 || i >= len(models.Motivos) {
		return ""
	}
	return models.Motivos[i]
}

// motivoIndex ищет причину без учета регистра; -1 если не найдена
func motivoIndex(motivo string) int {
	for i, m := range models.Motivos {
		if strings.EqualFold(m, strings.TrimSpace(motivo)) {
			return i
		}
	}
	return -1
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
