package format

import (
	"fmt"
	"time"
)

// DateFormats lists the supported date layouts in menu order. The tokens are
// the user-facing names; dateLayouts maps them to Go reference layouts.
var DateFormats = []string{
	"DD/MM/YYYY",
	"MM/DD/YYYY",
	"YYYY-MM-DD",
	"DD-MM-YYYY",
}

var dateLayouts = map[string]string{
	"DD/MM/YYYY": "02/01/2006",
	"MM/DD/YYYY": "01/02/2006",
	"YYYY-MM-DD": "2006-01-02",
	"DD-MM-YYYY": "02-01-2006",
}

// KnownDateFormat reports whether name is a supported date format.
func KnownDateFormat(name string) bool {
	_, ok := dateLayouts[name]
	return ok
}

// Date renders t using the named format, defaulting to DD/MM/YYYY for
// unknown names.
func Date(t time.Time, name string) string {
	layout, ok := dateLayouts[name]
	if !ok {
		layout = dateLayouts["DD/MM/YYYY"]
	}
	return t.Format(layout)
}

// ParseDate parses s using the named format, defaulting to DD/MM/YYYY for
// unknown names.
func ParseDate(s, name string) (time.Time, error) {
	layout, ok := dateLayouts[name]
	if !ok {
		layout = dateLayouts["DD/MM/YYYY"]
	}
	return time.Parse(layout, s)
}

// RelativeDate renders t relative to now in Spanish: "Hoy", "Ayer",
// "Hace 3 días", then weeks, months and years. Future dates and anything
// else fall back to the absolute format.
func RelativeDate(t, now time.Time, name string) string {
	day := func(x time.Time) time.Time {
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, x.Location())
	}
	days := int(day(now).Sub(day(t)).Hours() / 24)

	switch {
	case days == 0:
		return "Hoy"
	case days == 1:
		return "Ayer"
	case days > 1 && days < 7:
		return fmt.Sprintf("Hace %d días", days)
	case days >= 7 && days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "Hace 1 semana"
		}
		return fmt.Sprintf("Hace %d semanas", weeks)
	case days >= 30 && days < 365:
		months := days / 30
		if months == 1 {
			return "Hace 1 mes"
		}
		return fmt.Sprintf("Hace %d meses", months)
	case days >= 365:
		years := days / 365
		if years == 1 {
			return "Hace 1 año"
		}
		return fmt.Sprintf("Hace %d años", years)
	default:
		return Date(t, name)
	}
}

// MonthName returns the Spanish name for a month, capitalized.
func MonthName(m time.Month) string {
	names := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}
