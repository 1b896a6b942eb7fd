package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gastos-cli/gastos/internal/format"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/themes"
)

const (
	ajusteMoneda = iota
	ajusteIdioma
	ajusteFecha
	ajusteCount
)

// AjustesModel manages the preferences page. Values take effect immediately,
// so every other page reformats while this one is still open.
type AjustesModel struct {
	theme    themes.Theme
	settings settings.Settings
	cursor   int
	width    int
	height   int
}

// NewAjustes creates the preferences page.
func NewAjustes(theme themes.Theme, prefs settings.Settings) AjustesModel {
	return AjustesModel{theme: theme, settings: prefs}
}

// SetSettings refreshes the shown values after the store broadcasts a change.
func (m *AjustesModel) SetSettings(prefs settings.Settings) {
	m.settings = prefs
}

// Resize updates the component size.
func (m *AjustesModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m AjustesModel) Update(msg tea.Msg) (AjustesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor = (m.cursor + ajusteCount - 1) % ajusteCount
	case "down", "j":
		m.cursor = (m.cursor + 1) % ajusteCount
	case "left", "h":
		return m, m.cycle(-1)
	case "right", "l", "enter":
		return m, m.cycle(1)
	}
	return m, nil
}

// cycle moves the selected setting to its next or previous option and emits
// the change for the parent to persist.
func (m AjustesModel) cycle(dir int) tea.Cmd {
	var field, value string

	switch m.cursor {
	case ajusteMoneda:
		codes := make([]string, len(format.Currencies))
		for i, cur := range format.Currencies {
			codes[i] = cur.Code
		}
		field = "currency"
		value = nextOption(codes, m.settings.Currency, dir)
	case ajusteIdioma:
		field = "language"
		value = nextOption(settings.Languages, m.settings.Language, dir)
	case ajusteFecha:
		field = "dateFormat"
		value = nextOption(format.DateFormats, m.settings.DateFormat, dir)
	default:
		return nil
	}

	return func() tea.Msg { return SettingChangedMsg{Field: field, Value: value} }
}

func nextOption(options []string, current string, dir int) string {
	if len(options) == 0 {
		return current
	}
	ix := 0
	for i, opt := range options {
		if opt == current {
			ix = i
			break
		}
	}
	return options[(ix+dir+len(options))%len(options)]
}

// View renders the preferences page.
func (m AjustesModel) View() string {
	rows := []string{
		m.renderRow(ajusteMoneda, "Moneda", m.monedaLabel()),
		m.renderRow(ajusteIdioma, "Idioma", m.idiomaLabel()),
		m.renderRow(ajusteFecha, "Formato de fecha", m.settings.DateFormat),
	}

	sample := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	preview := fmt.Sprintf("Vista previa: %s · %s",
		format.Money(1234.56, m.settings.Currency),
		format.Date(sample, m.settings.DateFormat),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Configuración"),
		strings.Join(rows, "\n"),
		"",
		m.theme.Subtitle.Render(preview),
		m.theme.Subtitle.Render("↑/↓ elegir · ←/→ cambiar valor"),
	)
}

func (m AjustesModel) renderRow(row int, label, value string) string {
	marker := "  "
	rendered := m.theme.Normal.Render(value)
	if m.cursor == row {
		marker = m.theme.StatusInfo.Render("> ")
		rendered = m.theme.Highlighted.Render("< " + value + " >")
	}
	return fmt.Sprintf("%s%-18s %s", marker, label+":", rendered)
}

func (m AjustesModel) monedaLabel() string {
	for _, cur := range format.Currencies {
		if cur.Code == m.settings.Currency {
			return fmt.Sprintf("%s (%s) %s", cur.Code, cur.Symbol, cur.Name)
		}
	}
	return m.settings.Currency
}

func (m AjustesModel) idiomaLabel() string {
	if m.settings.Language == "en" {
		return "en (English)"
	}
	return "es (Español)"
}
