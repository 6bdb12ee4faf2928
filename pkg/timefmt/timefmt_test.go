package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"2026-01-05", "lunes, 5 de enero de 2026"},
		{"2025-10-18", "sábado, 18 de octubre de 2025"},
		{"2024-02-29", "jueves, 29 de febrero de 2024"},
		{"mañana", "mañana"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatDate(tc.input))
		})
	}
}

func TestFormatTime(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"8:5", "08:05"},
		{"08:30", "08:30"},
		{"17:45:00", "17:45"},
		{"1899-12-30T08:05:00.000Z", "08:05"},
		{"2026-01-05T14:00:00-06:00", "20:00"},
		{"", ""},
		{"sin hora", "sin hora"},
		{"T-bad", "T-bad"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatTime(tc.input))
		})
	}
}

func TestCurrentDate(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	now := time.Date(2026, 1, 5, 20, 30, 0, 0, loc)

	assert.Equal(t, "2026-01-06", CurrentDate(now), "date is taken in UTC")
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2026-01-05"))
	assert.False(t, ValidDate("05/01/2026"))
	assert.False(t, ValidDate(""))
}
