package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the whole TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		"",
		m.renderPage(),
	)

	statusBar := m.renderStatusBar()
	full := lipgloss.JoinVertical(lipgloss.Left, content, statusBar)

	if m.width == 0 {
		return full
	}
	return m.theme.BorderedBox.Width(m.width - 2).Render(full)
}

// renderTabs renders the page selector.
func (m Model) renderTabs() string {
	var tabs []string
	for p := PageDashboard; p < pageCount; p++ {
		label := " " + p.String() + " "
		if p == m.page {
			tabs = append(tabs, m.theme.Selected.Render(label))
		} else {
			tabs = append(tabs, m.theme.Subtitle.Render(label))
		}
	}
	user := ""
	if usuario := m.session.CurrentUser(); usuario != nil {
		user = m.theme.Subtitle.Render("  " + usuario.Username)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + user
}

func (m Model) renderPage() string {
	switch m.page {
	case PageMovimientos:
		return m.movimientos.View()
	case PageCategorias:
		return m.categorias.View()
	case PageReportes:
		return m.reportes.View()
	case PageAjustes:
		return m.ajustes.View()
	default:
		return m.dashboard.View()
	}
}

// renderStatusBar renders the bottom status bar.
func (m Model) renderStatusBar() string {
	left := m.page.String()
	center := m.status
	if m.lastError != nil {
		center = m.lastError.Error()
	}
	right := "? ayuda · q salir"

	totalWidth := m.width - 4
	spacing := totalWidth - len([]rune(left)) - len([]rune(center)) - len([]rune(right))
	if spacing < 2 {
		spacing = 2
	}
	leftPad := spacing / 2
	rightPad := spacing - leftPad

	centerStyle := m.theme.Normal
	if m.lastError != nil {
		centerStyle = m.theme.StatusError
	}

	return fmt.Sprintf("%s%s%s%s%s",
		m.theme.StatusInfo.Render(left),
		strings.Repeat(" ", leftPad),
		centerStyle.Render(center),
		strings.Repeat(" ", rightPad),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render(right),
	)
}

// renderHelp renders the full-screen help.
func (m Model) renderHelp() string {
	sections := []struct {
		title string
		lines []string
	}{
		{
			title: "Navegación",
			lines: []string{
				"tab / shift+tab   cambiar de página",
				"↑/↓               moverse en la lista",
				"r                 recargar datos",
				"?                 mostrar u ocultar esta ayuda",
				"q                 salir",
			},
		},
		{
			title: "Movimientos y categorías",
			lines: []string{
				"n                 crear",
				"e                 editar la fila seleccionada",
				"d                 eliminar la fila seleccionada",
				"enter             guardar el formulario",
				"esc               cancelar",
			},
		},
		{
			title: "Reportes",
			lines: []string{
				"c                 gastos por categoría",
				"m                 resumen mensual",
				"←/→               cambiar de año",
			},
		},
	}

	var parts []string
	parts = append(parts, m.theme.Title.Render("Ayuda"))
	for _, section := range sections {
		parts = append(parts, m.theme.Subtitle.Render(section.title))
		parts = append(parts, m.theme.Normal.Render(strings.Join(section.lines, "\n")))
		parts = append(parts, "")
	}
	parts = append(parts, m.theme.Subtitle.Render("Presione ? o esc para volver"))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
