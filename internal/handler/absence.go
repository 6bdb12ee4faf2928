package handler

import (
	"context"
	"fmt"
	"strings"

	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"
	"asistencia-bot/pkg/timefmt"
)

// startRestDay /descanso <id> <fecha> [motivo]
func (h *Handler) startRestDay(ctx context.Context, ws *workspace.Workspace, args string) {
	current, ok := h.supervisorOnly(ws)
	if !ok {
		return
	}

	fields := strings.Fields(args)
	if len(fields) < 2 {
		text := "✏️ Uso: /descanso <id> <AAAA-MM-DD> [motivo]\nMotivos: " + strings.Join(models.Motivos, ", ")
		if empleados, err := h.services.Employees.ActiveRoster(ctx, ws, supervisedService(current), false); err == nil {
			text += "\n\n" + formatEmpleados(empleados, false)
		}
		h.send(ws.ChatID, text)
		return
	}

	empleadoID := atoi(fields[0])
	fecha := fields[1]
	motivo := models.MotivoDescanso
	if len(fields) > 2 {
		motivo = strings.Join(fields[2:], " ")
	}

	switch idx := motivoIndex(motivo); {
	case empleadoID <= 0:
		h.send(ws.ChatID, "❌ Completa todos los campos")
	case !timefmt.ValidDate(fecha):
		h.send(ws.ChatID, "❌ Fecha no válida (AAAA-MM-DD)")
	case idx < 0:
		h.send(ws.ChatID, "❌ Motivo no válido\nMotivos: "+strings.Join(models.Motivos, ", "))
	default:
		h.askConfirm(ws, fmt.Sprintf("%s%d:%s:%d", actionDescanso, empleadoID, fecha, idx))
	}
}

func (h *Handler) scheduleRestDay(ctx context.Context, ws *workspace.Workspace, empleadoID int, fecha, motivo string) {
	if _, ok := h.supervisorOnly(ws); !ok {
		return
	}

	h.mutate(ws, func() {
		msg, err := h.services.RestDays.Schedule(ctx, ws, empleadoID, fecha, motivo)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		if msg == "" {
			msg = "Día de descanso programado"
		}
		h.sendSuccess(ws.ChatID, msg)

		h.sendRestDays(ctx, ws)
	})
}

func (h *Handler) showRestDays(ctx context.Context, ws *workspace.Workspace) {
	if _, ok := h.supervisorOnly(ws); !ok {
		return
	}
	h.sendRestDays(ctx, ws)
}

func (h *Handler) sendRestDays(ctx context.Context, ws *workspace.Workspace) {
	descansos, err := h.services.RestDays.List(ctx, ws, false)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}
	h.send(ws.ChatID, formatDescansos("🏖️ Días de descanso programados:", descansos))
}

// registerFalta /falta <id> <fecha> <motivo>
func (h *Handler) registerFalta(ctx context.Context, ws *workspace.Workspace, args string) {
	if _, ok := h.supervisorOnly(ws); !ok {
		return
	}

	fields := strings.Fields(args)
	if len(fields) < 3 {
		h.send(ws.ChatID, "✏️ Uso: /falta <id> <AAAA-MM-DD> <motivo>\nMotivos: "+strings.Join(models.Motivos, ", "))
		return
	}

	motivo := strings.Join(fields[2:], " ")
	if idx := motivoIndex(motivo); idx >= 0 {
		motivo = models.Motivos[idx]
	}

	h.mutate(ws, func() {
		msg, err := h.services.Absences.Register(ctx, ws, atoi(fields[0]), fields[1], motivo)
		if err != nil {
			h.sendError(ws.ChatID, err)
			return
		}
		if msg == "" {
			msg = "Falta registrada"
		}
		h.sendSuccess(ws.ChatID, msg)

		h.sendFaltas(ctx, ws)
	})
}

func (h *Handler) showFaltas(ctx context.Context, ws *workspace.Workspace) {
	if _, ok := h.supervisorOnly(ws); !ok {
		return
	}
	h.sendFaltas(ctx, ws)
}

func (h *Handler) sendFaltas(ctx context.Context, ws *workspace.Workspace) {
	faltas, err := h.services.Absences.List(ctx, ws, false)
	if err != nil {
		h.sendError(ws.ChatID, err)
		return
	}
	h.send(ws.ChatID, formatFaltas(faltas))
}
