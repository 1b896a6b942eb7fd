package tui

import (
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/settings"
)

// Data loading messages.
type movimientosLoadedMsg struct {
	err         error
	movimientos []model.Movimiento
}

type recientesLoadedMsg struct {
	err         error
	movimientos []model.Movimiento
}

type categoriasLoadedMsg struct {
	err        error
	categorias []model.Categoria
}

type resumenLoadedMsg struct {
	err     error
	resumen *model.ResumenFinanciero
}

type reporteCategoriasLoadedMsg struct {
	err     error
	resumen []model.CategoriaResumen
}

type reporteMensualLoadedMsg struct {
	err   error
	serie []model.ResumenMensual
	year  int
}

// Mutation results.
type mutationDoneMsg struct {
	err    error
	status string
}

// settingsChangedMsg arrives when the preferences store broadcasts a change;
// every open page reformats with the new settings.
type settingsChangedMsg struct {
	settings settings.Settings
}

// sessionExpiredMsg forces the TUI to quit back to the login prompt.
type sessionExpiredMsg struct{}
