package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gastos-cli/gastos/internal/format"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/themes"
)

type reporteView int

const (
	vistaCategorias reporteView = iota
	vistaMensual
)

// ReportesModel shows the expense breakdown by category and the monthly
// income and expense series for a year.
type ReportesModel struct {
	theme      themes.Theme
	settings   settings.Settings
	err        error
	categorias []model.CategoriaResumen
	mensual    []model.ResumenMensual
	year       int
	width      int
	height     int
	vista      reporteView
	loading    bool
}

// NewReportes creates the reports page.
func NewReportes(theme themes.Theme, prefs settings.Settings, year int) ReportesModel {
	return ReportesModel{
		theme:    theme,
		settings: prefs,
		year:     year,
		loading:  true,
	}
}

// SetCategorias stores the category breakdown.
func (m *ReportesModel) SetCategorias(resumen []model.CategoriaResumen) {
	m.categorias = resumen
	m.loading = false
	m.err = nil
}

// SetMensual stores the monthly series for year.
func (m *ReportesModel) SetMensual(serie []model.ResumenMensual, year int) {
	m.mensual = serie
	m.year = year
	m.loading = false
	m.err = nil
}

// SetError records a load failure.
func (m *ReportesModel) SetError(err error) {
	m.err = err
	m.loading = false
}

// SetSettings reformats the page with new preferences.
func (m *ReportesModel) SetSettings(prefs settings.Settings) {
	m.settings = prefs
}

// Resize updates the component size.
func (m *ReportesModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Year returns the year shown on the monthly view.
func (m ReportesModel) Year() int {
	return m.year
}

// Update handles messages.
func (m ReportesModel) Update(msg tea.Msg) (ReportesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "c":
		m.vista = vistaCategorias
	case "m":
		m.vista = vistaMensual
	case "left", "-":
		if m.vista == vistaMensual {
			year := m.year - 1
			return m, func() tea.Msg { return LoadYearMsg{Year: year} }
		}
	case "right", "+":
		if m.vista == vistaMensual {
			year := m.year + 1
			return m, func() tea.Msg { return LoadYearMsg{Year: year} }
		}
	}
	return m, nil
}

// View renders the reports page.
func (m ReportesModel) View() string {
	if m.loading {
		return m.theme.Subtitle.Render("Cargando reportes...")
	}
	if m.err != nil {
		return m.theme.StatusError.Render("No se pudieron cargar los reportes: " + m.err.Error())
	}

	var body string
	if m.vista == vistaMensual {
		body = m.renderMensual()
	} else {
		body = m.renderCategorias()
	}

	tabs := m.renderTabs()
	return lipgloss.JoinVertical(lipgloss.Left, tabs, body)
}

func (m ReportesModel) renderTabs() string {
	cat := "c Por categorías"
	mes := "m Mensual"
	if m.vista == vistaCategorias {
		cat = m.theme.Selected.Render(" Por categorías ")
	} else {
		mes = m.theme.Selected.Render(" Mensual ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cat, "  ", mes)
}

// renderCategorias draws one proportional bar per category, largest expense
// first.
func (m ReportesModel) renderCategorias() string {
	if len(m.categorias) == 0 {
		return m.theme.Normal.Render("Sin gastos registrados en el período.")
	}

	maxGasto := 0.0
	for _, cat := range m.categorias {
		if cat.TotalGastos > maxGasto {
			maxGasto = cat.TotalGastos
		}
	}

	barWidth := 20
	if m.width >= 100 {
		barWidth = 30
	}

	var lines []string
	for _, cat := range m.categorias {
		barLen := 0
		if maxGasto > 0 {
			barLen = int(cat.TotalGastos / maxGasto * float64(barWidth))
		}
		bar := strings.Repeat("█", barLen)

		line := fmt.Sprintf("%s %-16s %s %12s  %s",
			themes.GetCategoryIcon(cat.Categoria.Nombre),
			truncate(cat.Categoria.Nombre, 16),
			lipgloss.NewStyle().Foreground(m.theme.Primary).Render(fmt.Sprintf("%-*s", barWidth, bar)),
			format.Money(cat.TotalGastos, m.settings.Currency),
			m.theme.Subtitle.Render(format.Percentage(cat.Porcentaje)),
		)
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Subtitle.Render("Gastos por categoría"),
		m.theme.Normal.Render(strings.Join(lines, "\n")),
	)
}

// renderMensual draws a twelve-row table with income, expense and balance.
func (m ReportesModel) renderMensual() string {
	title := m.theme.Subtitle.Render(fmt.Sprintf("Resumen mensual %d  (← año anterior · → año siguiente)", m.year))
	if len(m.mensual) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			m.theme.Normal.Render("Sin movimientos en este año."),
		)
	}

	header := fmt.Sprintf("%-12s %14s %14s %14s", "Mes", "Ingresos", "Gastos", "Balance")
	lines := []string{m.theme.Bold.Render(header)}
	for _, mes := range m.mensual {
		balance := format.Money(mes.Balance, m.settings.Currency)
		styled := m.theme.Income.Render(balance)
		if mes.Balance < 0 {
			styled = m.theme.Expense.Render(balance)
		}
		lines = append(lines, fmt.Sprintf("%-12s %14s %14s %14s",
			mes.Mes,
			format.Money(mes.TotalIngresos, m.settings.Currency),
			format.Money(mes.TotalGastos, m.settings.Currency),
			styled,
		))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.theme.Normal.Render(strings.Join(lines, "\n")),
	)
}
