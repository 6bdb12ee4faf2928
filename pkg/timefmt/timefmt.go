package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout формат дат бэкенда (YYYY-MM-DD)
const DateLayout = "2006-01-02"

var diasSemana = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var meses = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// CurrentDate текущая дата в UTC
func CurrentDate(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

func ValidDate(fecha string) bool {
	_, err := time.Parse(DateLayout, fecha)
	return err == nil
}

// FormatDate "2026-01-05" -> "lunes, 5 de enero de 2026".
// Нераспознанная строка возвращается как есть
func FormatDate(fecha string) string {
	d, err := time.Parse(DateLayout, fecha)
	if err != nil {
		return fecha
	}
	return fmt.Sprintf("%s, %d de %s de %d", diasSemana[d.Weekday()], d.Day(), meses[d.Month()-1], d.Year())
}

// FormatTime приводит время к HH:MM. ISO-строки (таблицы отдают их с датой 1899-12-30)
// переводятся в UTC
func FormatTime(hora string) string {
	hora = strings.TrimSpace(hora)
	if hora == "" {
		return ""
	}

	if strings.ContainsAny(hora, "TZ") {
		t, err := time.Parse(time.RFC3339, hora)
		if err != nil {
			return hora
		}
		t = t.UTC()
		return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
	}

	parts := strings.Split(hora, ":")
	if len(parts) < 2 {
		return hora
	}
	return pad(parts[0]) + ":" + pad(parts[1])
}

func pad(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}
