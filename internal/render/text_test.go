package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icherkasov/reportgen/internal/render"
)

func TestLines(t *testing.T) {
	text := "Первый пункт\n\n  Второй пункт  \n\t\nТретий"
	assert.Equal(t,
		[]string{"Первый пункт", "Второй пункт", "Третий"},
		render.Lines(text))
	assert.Empty(t, render.Lines("\n  \n"))
}

func TestStripListMarker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"- пункт", "пункт"},
		{"* пункт", "пункт"},
		{"• пункт", "пункт"},
		{"-пункт", "пункт"},
		{"1. пункт", "пункт"},
		{"12) пункт", "пункт"},
		{"без маркера", "без маркера"},
		{"2FA не проверялась", "2FA не проверялась"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, render.StripListMarker(tc.in), "input: %q", tc.in)
	}
}

func TestStartsWithDigit(t *testing.T) {
	assert.True(t, render.StartsWithDigit("1. Нагрузочное тестирование"))
	assert.True(t, render.StartsWithDigit("  2FA"))
	assert.False(t, render.StartsWithDigit("Тестирование"))
	assert.False(t, render.StartsWithDigit(""))
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "—", render.DisplayValue("  ", "—"))
	assert.Equal(t, "BUG-1", render.DisplayValue("BUG-1", "—"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "95.8%", render.FormatPercent(95.83333))
	assert.Equal(t, "0.0%", render.FormatPercent(0))
	assert.Equal(t, "69 (95.8%)", render.FormatCountPercent(69, 95.83333))
}
