package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gastos-cli/gastos/internal/format"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/themes"
)

// DashboardModel shows the financial summary cards and the latest movements.
type DashboardModel struct {
	theme     themes.Theme
	settings  settings.Settings
	resumen   *model.ResumenFinanciero
	err       error
	recientes []model.Movimiento
	width     int
	height    int
	loading   bool
}

// NewDashboard creates the dashboard panel.
func NewDashboard(theme themes.Theme, prefs settings.Settings) DashboardModel {
	return DashboardModel{
		theme:    theme,
		settings: prefs,
		loading:  true,
	}
}

// SetResumen stores freshly loaded totals.
func (m *DashboardModel) SetResumen(resumen *model.ResumenFinanciero) {
	m.resumen = resumen
	m.loading = false
	m.err = nil
}

// SetRecientes stores the latest movements.
func (m *DashboardModel) SetRecientes(movimientos []model.Movimiento) {
	m.recientes = movimientos
}

// SetError records a load failure.
func (m *DashboardModel) SetError(err error) {
	m.err = err
	m.loading = false
}

// SetSettings reformats the dashboard with new preferences.
func (m *DashboardModel) SetSettings(prefs settings.Settings) {
	m.settings = prefs
}

// Resize updates the component size.
func (m *DashboardModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	if m.loading {
		return m.theme.Subtitle.Render("Cargando resumen...")
	}
	if m.err != nil {
		return m.theme.StatusError.Render("No se pudo cargar el resumen: " + m.err.Error())
	}
	if m.resumen == nil {
		return m.theme.Subtitle.Render("Sin datos")
	}

	sections := []string{
		m.renderCards(),
		m.renderRecientes(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderCards renders the four summary cards.
func (m DashboardModel) renderCards() string {
	cards := []string{
		m.renderCard("Ingresos", m.theme.Income, m.resumen.TotalIngresos),
		m.renderCard("Gastos", m.theme.Expense, m.resumen.TotalGastos),
		m.renderCard("Balance", m.balanceStyle(), m.resumen.Balance),
	}

	count := m.theme.RoundedBox.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Subtitle.Render("Movimientos"),
		m.theme.Bold.Render(fmt.Sprintf("%d", m.resumen.MovimientosCount)),
	))
	cards = append(cards, count)

	if m.width > 0 && m.width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m DashboardModel) renderCard(title string, style lipgloss.Style, amount float64) string {
	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Subtitle.Render(title),
		style.Bold(true).Render(format.Money(amount, m.settings.Currency)),
	))
}

func (m DashboardModel) balanceStyle() lipgloss.Style {
	if m.resumen.Balance < 0 {
		return m.theme.Expense
	}
	return m.theme.Income
}

// renderRecientes renders the latest-movements list.
func (m DashboardModel) renderRecientes() string {
	title := m.theme.Subtitle.Render("Últimos movimientos")
	if len(m.recientes) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			m.theme.Normal.Render("Todavía no hay movimientos registrados."),
		)
	}

	now := time.Now()
	var lines []string
	for _, mov := range m.recientes {
		icon := themes.GetCategoryIcon(mov.Categoria.Nombre)
		amount := format.Money(mov.Monto, m.settings.Currency)
		styled := m.theme.Income.Render("+" + amount)
		if mov.Tipo == model.TipoGasto {
			styled = m.theme.Expense.Render("-" + amount)
		}

		line := fmt.Sprintf("%s %-30s %12s  %s",
			icon,
			truncate(mov.Descripcion, 30),
			styled,
			m.theme.Subtitle.Render(format.RelativeDate(mov.FechaMovimiento, now, m.settings.DateFormat)),
		)
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.theme.Normal.Render(strings.Join(lines, "\n")),
	)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
