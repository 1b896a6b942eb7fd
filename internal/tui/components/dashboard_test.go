package components

import (
	"errors"
	"testing"
	"time"

	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/themes"
	"github.com/stretchr/testify/assert"
)

func TestDashboardLoading(t *testing.T) {
	m := NewDashboard(themes.Default, settings.Defaults())

	assert.Contains(t, m.View(), "Cargando")
}

func TestDashboardRendersResumen(t *testing.T) {
	m := NewDashboard(themes.Default, settings.Defaults())
	m.SetResumen(&model.ResumenFinanciero{
		TotalIngresos:    3000,
		TotalGastos:      1250.50,
		Balance:          1749.50,
		MovimientosCount: 12,
	})

	view := m.View()
	assert.Contains(t, view, "Ingresos")
	assert.Contains(t, view, "$3,000.00")
	assert.Contains(t, view, "$1,250.50")
	assert.Contains(t, view, "12")
}

func TestDashboardRendersRecientes(t *testing.T) {
	m := NewDashboard(themes.Default, settings.Defaults())
	m.SetResumen(&model.ResumenFinanciero{})
	m.SetRecientes([]model.Movimiento{
		{
			ID:              1,
			Descripcion:     "Supermercado",
			Monto:           85.30,
			Tipo:            model.TipoGasto,
			FechaMovimiento: time.Now(),
			Categoria:       model.Categoria{Nombre: "Alimentación"},
		},
	})

	view := m.View()
	assert.Contains(t, view, "Supermercado")
	assert.Contains(t, view, "Hoy")
}

func TestDashboardCurrencyFollowsSettings(t *testing.T) {
	m := NewDashboard(themes.Default, settings.Defaults())
	m.SetResumen(&model.ResumenFinanciero{TotalIngresos: 1500})

	prefs := settings.Defaults()
	prefs.Currency = "EUR"
	m.SetSettings(prefs)

	assert.Contains(t, m.View(), "€1,500.00")
}

func TestDashboardError(t *testing.T) {
	m := NewDashboard(themes.Default, settings.Defaults())
	m.SetError(errors.New("sin conexión"))

	assert.Contains(t, m.View(), "sin conexión")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 10))
	assert.Equal(t, "demasia...", truncate("demasiado largo", 10))
}
