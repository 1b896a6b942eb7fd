package format

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		want   string
		amount float64
	}{
		{name: "usd bare symbol", code: "USD", amount: 1234.5, want: "$1,234.50"},
		{name: "euro symbol only", code: "EUR", amount: 99.99, want: "€99.99"},
		{name: "pound symbol only", code: "GBP", amount: 10, want: "£10.00"},
		{name: "dollar collision gets code", code: "ARS", amount: 1500, want: "ARS $1,500.00"},
		{name: "mexican peso gets code", code: "MXN", amount: 0.5, want: "MXN $0.50"},
		{name: "sol uses own symbol", code: "PEN", amount: 250, want: "S/250.00"},
		{name: "real uses own symbol", code: "BRL", amount: 3, want: "R$3.00"},
		{name: "canadian dollar gets code", code: "CAD", amount: 1500, want: "CAD $1,500.00"},
		{name: "australian dollar gets code", code: "AUD", amount: 7.25, want: "AUD $7.25"},
		{name: "unknown code falls back to usd", code: "XXX", amount: 5, want: "$5.00"},
		{name: "negative amount", code: "USD", amount: -42.1, want: "$-42.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.amount, tt.code))
		})
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	// Stripping the symbol and separators from a rendered amount must recover
	// the original value to two decimals, whatever the currency.
	amounts := []float64{0, 0.01, 42.5, 1234.56, 987654.32, -250.75}

	for _, c := range Currencies {
		for _, amount := range amounts {
			rendered := Money(amount, c.Code)

			var digits strings.Builder
			for _, r := range rendered {
				if r >= '0' && r <= '9' || r == '.' || r == '-' {
					digits.WriteRune(r)
				}
			}

			parsed, err := strconv.ParseFloat(digits.String(), 64)
			require.NoError(t, err, "%s: %q", c.Code, rendered)
			assert.InDelta(t, amount, parsed, 0.005, "%s: %q", c.Code, rendered)
		}
	}
}

func TestKnownCurrency(t *testing.T) {
	for _, c := range Currencies {
		assert.True(t, KnownCurrency(c.Code), c.Code)
	}
	assert.False(t, KnownCurrency("XXX"))
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "1,000,000.00", Thousands(1e6, 2))
	assert.Equal(t, "999", Thousands(999, 0))
	assert.Equal(t, "1,000", Thousands(1000, 0))
	assert.Equal(t, "-12,345.7", Thousands(-12345.67, 1))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "33.3%", Percentage(33.333))
	assert.Equal(t, "50%", Percentage(50))
	assert.Equal(t, "0%", Percentage(0))
	assert.Equal(t, "100%", Percentage(99.99))
}

func TestDate(t *testing.T) {
	d := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.Local)

	assert.Equal(t, "05/03/2026", Date(d, "DD/MM/YYYY"))
	assert.Equal(t, "03/05/2026", Date(d, "MM/DD/YYYY"))
	assert.Equal(t, "2026-03-05", Date(d, "YYYY-MM-DD"))
	assert.Equal(t, "05-03-2026", Date(d, "DD-MM-YYYY"))
	assert.Equal(t, "05/03/2026", Date(d, "bogus"), "unknown format falls back")
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.Local)
	ago := func(days int) time.Time { return now.AddDate(0, 0, -days) }

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "today", t: now.Add(-2 * time.Hour), want: "Hoy"},
		{name: "yesterday", t: ago(1), want: "Ayer"},
		{name: "days", t: ago(3), want: "Hace 3 días"},
		{name: "one week", t: ago(7), want: "Hace 1 semana"},
		{name: "weeks", t: ago(20), want: "Hace 2 semanas"},
		{name: "one month", t: ago(35), want: "Hace 1 mes"},
		{name: "months", t: ago(90), want: "Hace 3 meses"},
		{name: "one year", t: ago(400), want: "Hace 1 año"},
		{name: "years", t: ago(800), want: "Hace 2 años"},
		{name: "future falls back to absolute", t: now.AddDate(0, 0, 5), want: "20/06/2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDate(tt.t, now, "DD/MM/YYYY"))
		})
	}
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Enero", MonthName(time.January))
	assert.Equal(t, "Diciembre", MonthName(time.December))
	assert.Equal(t, "", MonthName(time.Month(13)))
}
