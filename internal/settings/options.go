package settings

import "github.com/gastos-cli/gastos/internal/format"

// Languages lists the supported interface languages.
var Languages = []string{"es", "en"}

// ValidCurrency reports whether code is a supported currency.
func ValidCurrency(code string) bool {
	return format.KnownCurrency(code)
}

// ValidLanguage reports whether lang is a supported language.
func ValidLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// ValidDateFormat reports whether name is a supported date format.
func ValidDateFormat(name string) bool {
	return format.KnownDateFormat(name)
}
