package components

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportesCategoriasView(t *testing.T) {
	m := NewReportes(themes.Default, settings.Defaults(), 2025)
	m.SetCategorias([]model.CategoriaResumen{
		{Categoria: model.Categoria{Nombre: "Alimentación"}, TotalGastos: 800, Porcentaje: 66.7},
		{Categoria: model.Categoria{Nombre: "Transporte"}, TotalGastos: 400, Porcentaje: 33.3},
	})

	view := m.View()
	assert.Contains(t, view, "Gastos por categoría")
	assert.Contains(t, view, "Alimentación")
	assert.Contains(t, view, "66.7%")
	assert.NotContains(t, view, "%%")
}

func TestReportesMensualView(t *testing.T) {
	m := NewReportes(themes.Default, settings.Defaults(), 2025)
	m.SetMensual([]model.ResumenMensual{
		{Mes: "Enero", Ano: 2025, TotalIngresos: 3000, TotalGastos: 1200, Balance: 1800},
	}, 2025)

	m, _ = m.Update(keyPress("m"))

	view := m.View()
	assert.Contains(t, view, "Resumen mensual 2025")
	assert.Contains(t, view, "Enero")
	assert.Contains(t, view, "$1,800.00")
}

func TestReportesYearNavigation(t *testing.T) {
	m := NewReportes(themes.Default, settings.Defaults(), 2025)
	m.SetMensual(nil, 2025)
	m, _ = m.Update(keyPress("m"))

	var cmd tea.Cmd
	m, cmd = m.Update(keyPress("left"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(LoadYearMsg)
	require.True(t, ok)
	assert.Equal(t, 2024, msg.Year)
}

func TestReportesYearKeysIgnoredOnCategorias(t *testing.T) {
	m := NewReportes(themes.Default, settings.Defaults(), 2025)
	m.SetCategorias(nil)

	_, cmd := m.Update(keyPress("left"))
	assert.Nil(t, cmd)
}

func TestReportesError(t *testing.T) {
	m := NewReportes(themes.Default, settings.Defaults(), 2025)
	m.SetError(errors.New("tiempo de espera agotado"))

	assert.Contains(t, m.View(), "tiempo de espera agotado")
}
