package handler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"asistencia-bot/internal/models"
	"asistencia-bot/internal/service"
	"asistencia-bot/pkg/timefmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// лимит Telegram 4096 символов, оставляем запас
const maxMessageLen = 3900

var upper = cases.Upper(language.Spanish)

func (h *Handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, truncate(text))
	if _, err := h.bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, truncate(text))
	if len(keyboard.InlineKeyboard) > 0 {
		msg.ReplyMarkup = keyboard
	}
	if _, err := h.bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}

func (h *Handler) sendSuccess(chatID int64, text string) {
	h.send(chatID, "✅ "+text)
}

func (h *Handler) sendWarning(chatID int64, text string) {
	h.send(chatID, "⚠️ "+text)
}

// sendError баннер с ошибкой; сообщение бэкенда показывается как есть
func (h *Handler) sendError(chatID int64, err error) {
	h.send(chatID, "❌ "+service.UserMessage(err))
}

func truncate(text string) string {
	if len(text) <= maxMessageLen {
		return text
	}
	cut := text[:maxMessageLen]
	// не рвем многобайтовый символ
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "\n…"
}

func header(title string) string {
	return "📋 " + upper.String(title)
}

func formatEmpleadoInfo(e *models.Empleado, now string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", e.NombreCompleto())
	servicio := e.ServicioNombre
	if servicio == "" {
		servicio = "Sin servicio"
	}
	fmt.Fprintf(&b, "🏢 %s\n", servicio)
	if e.HoraEntrada != "" || e.HoraSalida != "" {
		fmt.Fprintf(&b, "🕐 Horario: %s - %s\n", timefmt.FormatTime(e.HoraEntrada), timefmt.FormatTime(e.HoraSalida))
	}
	fmt.Fprintf(&b, "📅 %s", timefmt.FormatDate(now))
	return b.String()
}

// formatMisRegistros отметки одного сотрудника
func formatMisRegistros(registros []models.Registro) string {
	if len(registros) == 0 {
		return "No tienes registros para hoy"
	}

	var b strings.Builder
	b.WriteString("🗓 Registros de hoy:\n")
	for _, r := range registros {
		fmt.Fprintf(&b, "• %s: %s", r.Tipo.Nombre(), timefmt.FormatTime(r.Hora))
		if r.IsLateArrival() {
			fmt.Fprintf(&b, " ⚠️ %d min tarde", r.MinutosTarde)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatRegistros отметки всех сотрудников
func formatRegistros(titulo string, registros []models.Registro) string {
	if len(registros) == 0 {
		return titulo + "\nNo hay registros"
	}

	var b strings.Builder
	b.WriteString(titulo + "\n")
	for _, r := range registros {
		fmt.Fprintf(&b, "• %s | %s", r.NombreCompleto, r.Tipo.Nombre())
		if r.Servicio != "" {
			fmt.Fprintf(&b, " | %s", r.Servicio)
		}
		if r.Fecha != "" {
			fmt.Fprintf(&b, " | %s", r.Fecha)
		}
		fmt.Fprintf(&b, " | %s", timefmt.FormatTime(r.Hora))
		if r.Tarde && r.Tipo == models.TipoEntrada {
			fmt.Fprintf(&b, " ⚠️ TARDE %d min", r.MinutosTarde)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatEmpleados(empleados []models.Empleado, withStatus bool) string {
	if len(empleados) == 0 {
		return "No hay empleados"
	}

	var b strings.Builder
	b.WriteString("👥 Empleados:\n")
	for _, e := range empleados {
		fmt.Fprintf(&b, "#%d %s (%s) %s", e.ID, e.NombreCompleto(), e.Usuario, e.Rol)
		if e.ServicioNombre != "" {
			fmt.Fprintf(&b, " | %s", e.ServicioNombre)
		}
		if e.HoraEntrada != "" {
			fmt.Fprintf(&b, " | %s - %s", timefmt.FormatTime(e.HoraEntrada), timefmt.FormatTime(e.HoraSalida))
		}
		if withStatus {
			if e.Activo {
				b.WriteString(" | ✅ Activo")
			} else {
				b.WriteString(" | ❌ Inactivo")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatServicios(servicios []models.Servicio) string {
	if len(servicios) == 0 {
		return "No hay servicios"
	}

	var b strings.Builder
	b.WriteString("🏢 Servicios:\n")
	for _, s := range servicios {
		estado := "❌ Inactivo"
		if s.Activo {
			estado = "✅ Activo"
		}
		fmt.Fprintf(&b, "#%d %s | %s", s.ID, s.Nombre, estado)
		if s.Descripcion != "" {
			fmt.Fprintf(&b, "\n   %s", s.Descripcion)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDescansos(titulo string, descansos []models.DiaDescanso) string {
	if len(descansos) == 0 {
		return titulo + "\nNo hay días de descanso programados"
	}

	var b strings.Builder
	b.WriteString(titulo + "\n")
	for _, d := range descansos {
		aprobado := d.AprobadoPor
		if aprobado == "" {
			aprobado = "Sin info"
		}
		fmt.Fprintf(&b, "• %s | %s | %s | Aprobado por: %s\n", d.Nombre(), d.Fecha, d.Motivo, aprobado)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatFaltas(faltas []models.Falta) string {
	if len(faltas) == 0 {
		return "No hay faltas registradas"
	}

	var b strings.Builder
	b.WriteString("🚫 Faltas registradas:\n")
	for _, f := range faltas {
		fmt.Fprintf(&b, "• %s | %s | %s", f.EmpleadoNombre, f.Fecha, f.Motivo)
		if f.RegistradaPor != "" {
			fmt.Fprintf(&b, " | Registrada por: %s", f.RegistradaPor)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStats(stats *models.DashboardStats) string {
	na := func(ok bool, n int) string {
		if !ok {
			return "-"
		}
		return fmt.Sprint(n)
	}

	var b strings.Builder
	b.WriteString("📊 Estadísticas de hoy\n")
	fmt.Fprintf(&b, "👥 Empleados activos: %s\n", na(stats.EmpleadosOK, stats.EmpleadosActivos))
	fmt.Fprintf(&b, "🕐 Registros hoy: %s\n", na(stats.RegistrosOK, len(stats.RegistrosHoy)))
	fmt.Fprintf(&b, "⚠️ Llegadas tarde: %s\n", na(stats.RegistrosOK, stats.LlegadasTarde))
	fmt.Fprintf(&b, "🏖️ Días de descanso: %s\n", na(stats.DescansosOK, stats.DescansosLegit))
	if stats.DescansosOK {
		for _, motivo := range models.Motivos {
			if motivo == models.MotivoDescanso || motivo == models.MotivoDiaFestivo {
				continue
			}
			fmt.Fprintf(&b, "   %s: %d\n", motivo, stats.PorMotivo[motivo])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
