package handler

import (
	"context"
	"sync"

	"asistencia-bot/internal/config"
	"asistencia-bot/internal/inactivity"
	"asistencia-bot/internal/service"
	"asistencia-bot/internal/workspace"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender часть BotAPI, которой пользуется обработчик
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot        Sender
	workspaces *workspace.Manager
	services   *service.Services
	config     *config.BotConfig

	statesMu   sync.Mutex
	userStates map[int64]string

	// очередь обновлений на чат; наличие ключа значит, что воркер запущен
	queueMu sync.Mutex
	queues  map[int64][]tgbotapi.Update

	wg sync.WaitGroup
}

func NewHandler(
	bot Sender,
	workspaces *workspace.Manager,
	services *service.Services,
	cfg *config.BotConfig,
) *Handler {
	h := &Handler{
		bot:        bot,
		workspaces: workspaces,
		services:   services,
		config:     cfg,
		userStates: make(map[int64]string),
		queues:     make(map[int64][]tgbotapi.Update),
	}
	workspaces.OnExpire(h.notifyExpired)
	return h
}

// HandleUpdates обрабатывает чаты параллельно, чтобы медленный бэкенд
// одной компании не тормозил остальные. Внутри чата порядок сохраняется:
// диалог входа зависит от него
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			h.wg.Wait()
			return
		case update, ok := <-updates:
			if !ok {
				h.wg.Wait()
				return
			}
			h.enqueue(ctx, update)
		}
	}
}

// enqueue ставит обновление в очередь чата и запускает воркер, если его нет
func (h *Handler) enqueue(ctx context.Context, update tgbotapi.Update) {
	chatID := updateChatID(update)

	h.queueMu.Lock()
	pending, running := h.queues[chatID]
	h.queues[chatID] = append(pending, update)
	h.queueMu.Unlock()

	if running {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.drain(ctx, chatID)
	}()
}

// drain по одному обрабатывает обновления чата, пока очередь не опустеет
func (h *Handler) drain(ctx context.Context, chatID int64) {
	for {
		h.queueMu.Lock()
		pending := h.queues[chatID]
		if len(pending) == 0 {
			delete(h.queues, chatID)
			h.queueMu.Unlock()
			return
		}
		update := pending[0]
		h.queues[chatID] = pending[1:]
		h.queueMu.Unlock()

		h.HandleUpdate(ctx, update)
	}
}

// updateChatID чат, к которому относится обновление; 0 для обновлений без чата
func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	case update.EditedMessage != nil && update.EditedMessage.Chat != nil:
		return update.EditedMessage.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("update_id", update.UpdateID).Errorf("panic while handling update: %v", r)
		}
	}()

	// Обработка callback query (для inline кнопок)
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	// правка сообщения ничего не делает, но это активность пользователя
	if update.EditedMessage != nil {
		h.workspaces.Get(update.EditedMessage.Chat.ID).Touch(inactivity.Scroll)
		return
	}

	if update.Message == nil {
		return
	}

	h.handleMessage(ctx, update.Message)
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	log := logrus.WithField("chat_id", chatID)
	if message.From != nil {
		log = log.WithField("from", message.From.UserName)
	}

	// /start - новая загрузка страницы, отдельный путь
	if message.IsCommand() && message.Command() == "start" {
		log.Infof("/start %s", message.CommandArguments())
		h.handleStart(ctx, message)
		return
	}

	ws := h.workspaces.Get(chatID)

	// Находится ли пользователь в диалоге входа
	if state, exists := h.getState(chatID); exists && !message.IsCommand() {
		ws.Touch(inactivity.Press)
		h.handleLoginState(ctx, ws, message, state)
		return
	}

	if message.IsCommand() {
		log.Infof("/%s", message.Command())
		ws.Touch(commandSignal(message.Command()))
		h.clearState(chatID)
		h.handleCommand(ctx, ws, message)
		return
	}

	ws.Touch(inactivity.Press)
	h.showPage(ctx, ws, false)
}

func (h *Handler) getState(chatID int64) (string, bool) {
	h.statesMu.Lock()
	defer h.statesMu.Unlock()
	state, ok := h.userStates[chatID]
	return state, ok
}

func (h *Handler) setState(chatID int64, state string) {
	h.statesMu.Lock()
	defer h.statesMu.Unlock()
	h.userStates[chatID] = state
}

func (h *Handler) clearState(chatID int64) {
	h.statesMu.Lock()
	defer h.statesMu.Unlock()
	delete(h.userStates, chatID)
}

// notifyExpired сессия очищена таймером простоя: сообщаем и ведем на вход
func (h *Handler) notifyExpired(ws *workspace.Workspace) {
	h.clearState(ws.ChatID)
	h.send(ws.ChatID, "⏱️ Tu sesión ha expirado por inactividad. Por favor, inicia sesión nuevamente.")
	h.sendLoginPage(ws)
}

// commandSignal возврат к панели считается возвратом на вкладку
func commandSignal(command string) inactivity.Signal {
	switch command {
	case "menu", "actualizar":
		return inactivity.VisibilityRegained
	}
	return inactivity.Touch
}
