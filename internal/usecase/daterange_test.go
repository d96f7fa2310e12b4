package usecase

import (
	"testing"

	"StockDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRange(t *testing.T) {
	assert.Equal(t,
		models.DateRange{From: "2024-01-01", To: "2024-01-05"},
		NormalizeRange("2024-01-01T10:00:00Z", "01/05/2024"))

	// unparseable becomes unset, no error here
	assert.Equal(t,
		models.DateRange{From: "", To: "2024-01-05"},
		NormalizeRange("yesterday", "2024-01-05"))

	// inverted is kept as is
	r := NormalizeRange("2024-02-01", "2024-01-01")
	assert.Equal(t, "2024-02-01", r.From)
	assert.True(t, r.Inverted())
}

func TestNormalizeDateAlwaysCalendarForm(t *testing.T) {
	// date-picker milliseconds and compact dates
	assert.Equal(t, "2024-01-01", NormalizeDate("1704067200000"))
	assert.Equal(t, "2024-01-01", NormalizeDate("20240101"))

	for _, raw := range []string{"1704067200000", "20240101", "1704412800", "999999999999", "1e9"} {
		got := NormalizeDate(raw)
		if got == "" {
			continue
		}
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, got, raw)
	}
}
