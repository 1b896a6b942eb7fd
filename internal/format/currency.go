// Package format renders amounts, dates and percentages for display. All
// functions are pure; callers pass the active display settings in.
package format

import (
	"fmt"
	"strings"
)

// Currency describes a supported display currency.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// Currencies lists the supported display currencies in menu order.
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "Dólar estadounidense"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "Libra esterlina"},
	{Code: "MXN", Symbol: "$", Name: "Peso mexicano"},
	{Code: "COP", Symbol: "$", Name: "Peso colombiano"},
	{Code: "PEN", Symbol: "S/", Name: "Sol peruano"},
	{Code: "CLP", Symbol: "$", Name: "Peso chileno"},
	{Code: "ARS", Symbol: "$", Name: "Peso argentino"},
	{Code: "BRL", Symbol: "R$", Name: "Real brasileño"},
	{Code: "CAD", Symbol: "$", Name: "Dólar canadiense"},
	{Code: "AUD", Symbol: "$", Name: "Dólar australiano"},
}

var currencyByCode = func() map[string]Currency {
	m := make(map[string]Currency, len(Currencies))
	for _, c := range Currencies {
		m[c.Code] = c
	}
	return m
}()

// KnownCurrency reports whether code is a supported currency.
func KnownCurrency(code string) bool {
	_, ok := currencyByCode[code]
	return ok
}

// Money renders an amount in the given currency with two decimals and
// thousands separators. USD shows a bare "$"; other dollar-symbol currencies
// are disambiguated with their code ("ARS $1.500,00" style collisions are the
// reason); currencies with a distinctive symbol show just the symbol.
func Money(amount float64, code string) string {
	c, ok := currencyByCode[code]
	if !ok {
		c = currencyByCode["USD"]
	}

	body := Thousands(amount, 2)

	switch {
	case c.Code == "USD":
		return "$" + body
	case c.Symbol == "$":
		return c.Code + " $" + body
	default:
		return c.Symbol + body
	}
}

// Thousands formats a number with comma thousands separators and the given
// number of decimals.
func Thousands(v float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, v)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// Percentage renders a share with at most one decimal place, dropping the
// decimal when it is zero: "33.3%", "50%".
func Percentage(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s + "%"
}
