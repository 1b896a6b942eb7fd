package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gastos-cli/gastos/internal/api"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/settings"
)

const loadTimeout = 30 * time.Second

// wrapAuth converts an auth failure into a session-expired message so the
// whole TUI reacts, not just the page that noticed.
func wrapAuth(err error, msg tea.Msg) tea.Msg {
	if err != nil && api.IsAuthError(err) {
		return sessionExpiredMsg{}
	}
	return msg
}

// loadMovimientos loads the movement list.
func (m Model) loadMovimientos() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movimientos, err := m.queries.Movimientos(ctx, m.filtro)
		return wrapAuth(err, movimientosLoadedMsg{movimientos: movimientos, err: err})
	}
}

// loadRecientes loads the latest movements for the dashboard.
func (m Model) loadRecientes() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movimientos, err := m.queries.UltimosMovimientos(ctx, 5)
		return wrapAuth(err, recientesLoadedMsg{movimientos: movimientos, err: err})
	}
}

// loadCategorias loads the category list.
func (m Model) loadCategorias() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		categorias, err := m.queries.Categorias(ctx)
		return wrapAuth(err, categoriasLoadedMsg{categorias: categorias, err: err})
	}
}

// loadResumen loads the dashboard totals.
func (m Model) loadResumen() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		resumen, err := m.queries.ResumenFinanciero(ctx)
		return wrapAuth(err, resumenLoadedMsg{resumen: resumen, err: err})
	}
}

// loadReporteCategorias loads the expense breakdown by category.
func (m Model) loadReporteCategorias() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		resumen, err := m.queries.ResumenPorCategorias(ctx)
		return wrapAuth(err, reporteCategoriasLoadedMsg{resumen: resumen, err: err})
	}
}

// loadReporteMensual loads the monthly series for year.
func (m Model) loadReporteMensual(year int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		serie, err := m.queries.ResumenMensual(ctx, year)
		return wrapAuth(err, reporteMensualLoadedMsg{serie: serie, year: year, err: err})
	}
}

// crearMovimiento creates a movement.
func (m Model) crearMovimiento(dto model.MovimientoCreateDTO) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		_, err := m.queries.CrearMovimiento(ctx, dto)
		if err != nil {
			return wrapAuth(err, mutationDoneMsg{err: err})
		}
		return mutationDoneMsg{status: "Movimiento creado"}
	}
}

// actualizarMovimiento updates a movement.
func (m Model) actualizarMovimiento(dto model.MovimientoUpdateDTO) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		_, err := m.queries.ActualizarMovimiento(ctx, dto)
		if err != nil {
			return wrapAuth(err, mutationDoneMsg{err: err})
		}
		return mutationDoneMsg{status: "Movimiento actualizado"}
	}
}

// eliminarMovimiento deletes a movement.
func (m Model) eliminarMovimiento(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if err := m.queries.EliminarMovimiento(ctx, id); err != nil {
			return wrapAuth(err, mutationDoneMsg{err: err})
		}
		return mutationDoneMsg{status: "Movimiento eliminado"}
	}
}

// crearCategoria creates a category.
func (m Model) crearCategoria(dto model.CategoriaCreateDTO) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		_, err := m.queries.CrearCategoria(ctx, dto)
		if err != nil {
			return wrapAuth(err, mutationDoneMsg{err: err})
		}
		return mutationDoneMsg{status: "Categoría creada"}
	}
}

// actualizarCategoria updates a category.
func (m Model) actualizarCategoria(dto model.CategoriaUpdateDTO) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		_, err := m.queries.ActualizarCategoria(ctx, dto)
		if err != nil {
			return wrapAuth(err, mutationDoneMsg{err: err})
		}
		return mutationDoneMsg{status: "Categoría actualizada"}
	}
}

// eliminarCategoria deletes a category.
func (m Model) eliminarCategoria(categoria model.Categoria) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if err := m.queries.EliminarCategoria(ctx, categoria); err != nil {
			return wrapAuth(err, mutationDoneMsg{err: err})
		}
		return mutationDoneMsg{status: "Categoría eliminada"}
	}
}

// watchSettings forwards one settings change into the update loop. The
// handler re-issues it so the subscription stays live.
func watchSettings(ch <-chan settings.Settings) tea.Cmd {
	return func() tea.Msg {
		next, ok := <-ch
		if !ok {
			return nil
		}
		return settingsChangedMsg{settings: next}
	}
}
