package handler

import (
	"context"
	"fmt"
	"strings"

	"asistencia-bot/internal/workspace"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	stateAwaitingUsuario = "awaiting_usuario"
	stateAwaitingPIN     = "awaiting_pin:"
)

// startLogin начинает вход: /login или сразу /login usuario pin
func (h *Handler) startLogin(ctx context.Context, ws *workspace.Workspace, message *tgbotapi.Message, args string) {
	chatID := ws.ChatID

	if _, nav, ok := h.services.Auth.Resume(ws); ok {
		h.send(chatID, "ℹ️ Ya tienes una sesión activa")
		h.openPage(ctx, ws, nav.Page, false)
		return
	}

	if fields := strings.Fields(args); len(fields) == 2 {
		// PIN не должен оставаться в истории чата
		h.deleteMessage(chatID, message.MessageID)
		h.login(ctx, ws, fields[0], fields[1])
		return
	}

	h.setState(chatID, stateAwaitingUsuario)
	h.send(chatID, fmt.Sprintf("🔐 %s\n\nPaso 1 de 2:\n✏️ Escribe tu usuario:", ws.Tenant.Nombre))
}

// handleLoginState обрабатывает шаги диалога входа
func (h *Handler) handleLoginState(ctx context.Context, ws *workspace.Workspace, message *tgbotapi.Message, state string) {
	chatID := ws.ChatID
	text := strings.TrimSpace(message.Text)

	switch {
	case state == stateAwaitingUsuario:
		if text == "" {
			h.send(chatID, "✏️ Escribe tu usuario:")
			return
		}
		h.setState(chatID, stateAwaitingPIN+text)
		h.send(chatID, "Paso 2 de 2:\n🔢 Escribe tu PIN de 4 dígitos:")

	case strings.HasPrefix(state, stateAwaitingPIN):
		usuario := strings.TrimPrefix(state, stateAwaitingPIN)
		h.clearState(chatID)
		h.deleteMessage(chatID, message.MessageID)
		h.login(ctx, ws, usuario, text)

	default:
		h.clearState(chatID)
		h.showPage(ctx, ws, false)
	}
}

func (h *Handler) login(ctx context.Context, ws *workspace.Workspace, usuario, pin string) {
	h.mutate(ws, func() {
		_, nav, err := h.services.Auth.Login(ctx, ws, usuario, pin)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}

		h.sendSuccess(ws.ChatID, "¡Login exitoso!")
		h.openPage(ctx, ws, nav.Page, false)
	})
}

func (h *Handler) logout(ws *workspace.Workspace) {
	nav := h.services.Auth.Logout(ws)
	h.clearState(ws.ChatID)

	logrus.WithFields(logrus.Fields{
		"chat_id": ws.ChatID,
		"empresa": ws.Tenant.ID,
	}).Infof("logout, redirect to %s", nav.Path())

	h.send(ws.ChatID, "👋 Sesión cerrada")
	h.sendLoginPage(ws)
}

// showProfile данные текущего пользователя
func (h *Handler) showProfile(ws *workspace.Workspace) {
	current, ok := h.authorize(ws, nil)
	if !ok {
		return
	}

	text := formatEmpleadoInfo(current, h.services.CurrentDate())
	text += fmt.Sprintf("\n🔑 Usuario: %s\n🎭 Rol: %s\n🏢 Empresa: %s", current.Usuario, current.Rol, ws.Tenant.Nombre)
	h.send(ws.ChatID, text)
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("failed to delete message")
	}
}
