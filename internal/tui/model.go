package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/queries"
	"github.com/gastos-cli/gastos/internal/session"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/components"
	"github.com/gastos-cli/gastos/internal/tui/themes"
)

// Page identifies one of the top-level screens.
type Page int

const (
	PageDashboard Page = iota
	PageMovimientos
	PageCategorias
	PageReportes
	PageAjustes
	pageCount
)

// String returns the tab label for a page.
func (p Page) String() string {
	switch p {
	case PageDashboard:
		return "Resumen"
	case PageMovimientos:
		return "Movimientos"
	case PageCategorias:
		return "Categorías"
	case PageReportes:
		return "Reportes"
	case PageAjustes:
		return "Configuración"
	default:
		return "?"
	}
}

// Model holds the main TUI state.
type Model struct {
	theme       themes.Theme
	queries     *queries.Service
	session     *session.Holder
	settings    *settings.Store
	settingsCh  <-chan settings.Settings
	unsubscribe func()
	lastError   error
	status      string
	filtro      model.FiltroMovimientos
	keymap      KeyMap
	dashboard   components.DashboardModel
	movimientos components.MovimientosModel
	categorias  components.CategoriasModel
	reportes    components.ReportesModel
	ajustes     components.AjustesModel
	width       int
	height      int
	page        Page
	showHelp    bool
	expired     bool
	quitting    bool
}

// newModel creates a model wired to the given services.
func newModel(cfg Config) Model {
	prefs := cfg.Settings.Get()
	ch, cancel := cfg.Settings.Subscribe()

	return Model{
		theme:       cfg.Theme,
		queries:     cfg.Service,
		session:     cfg.Session,
		settings:    cfg.Settings,
		settingsCh:  ch,
		unsubscribe: cancel,
		keymap:      DefaultKeyMap(),
		page:        PageDashboard,
		dashboard:   components.NewDashboard(cfg.Theme, prefs),
		movimientos: components.NewMovimientos(cfg.Theme, prefs),
		categorias:  components.NewCategorias(cfg.Theme),
		reportes:    components.NewReportes(cfg.Theme, prefs, time.Now().Year()),
		ajustes:     components.NewAjustes(cfg.Theme, prefs),
	}
}

// Init loads every page's data up front so tab switches are instant.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadResumen(),
		m.loadRecientes(),
		m.loadMovimientos(),
		m.loadCategorias(),
		m.loadReporteCategorias(),
		m.loadReporteMensual(m.reportes.Year()),
		watchSettings(m.settingsCh),
	)
}

// editing reports whether the active page is capturing text input.
func (m Model) editing() bool {
	switch m.page {
	case PageMovimientos:
		return m.movimientos.Editing()
	case PageCategorias:
		return m.categorias.Editing()
	default:
		return false
	}
}

// Update routes messages to the active page.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := msg.Height - 6
		m.dashboard.Resize(msg.Width, contentHeight)
		m.movimientos.Resize(msg.Width, contentHeight)
		m.categorias.Resize(msg.Width, contentHeight)
		m.reportes.Resize(msg.Width, contentHeight)
		m.ajustes.Resize(msg.Width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case movimientosLoadedMsg:
		if msg.err != nil {
			m.movimientos.SetError(msg.err)
			return m, nil
		}
		m.movimientos.SetMovimientos(msg.movimientos)
		return m, nil

	case recientesLoadedMsg:
		if msg.err != nil {
			m.dashboard.SetError(msg.err)
			return m, nil
		}
		m.dashboard.SetRecientes(msg.movimientos)
		return m, nil

	case categoriasLoadedMsg:
		if msg.err != nil {
			m.categorias.SetError(msg.err)
			return m, nil
		}
		m.categorias.SetCategorias(msg.categorias)
		m.movimientos.SetCategorias(msg.categorias)
		return m, nil

	case resumenLoadedMsg:
		if msg.err != nil {
			m.dashboard.SetError(msg.err)
			return m, nil
		}
		m.dashboard.SetResumen(msg.resumen)
		return m, nil

	case reporteCategoriasLoadedMsg:
		if msg.err != nil {
			m.reportes.SetError(msg.err)
			return m, nil
		}
		m.reportes.SetCategorias(msg.resumen)
		return m, nil

	case reporteMensualLoadedMsg:
		if msg.err != nil {
			m.reportes.SetError(msg.err)
			return m, nil
		}
		m.reportes.SetMensual(msg.serie, msg.year)
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			// A failed save keeps the form open with the error inline.
			m.movimientos.SetFormError(msg.err.Error())
			m.categorias.SetFormError(msg.err.Error())
			m.lastError = msg.err
			m.status = ""
			return m, nil
		}
		m.movimientos.FormSaved()
		m.categorias.FormSaved()
		m.lastError = nil
		m.status = msg.status
		return m, m.reload()

	case components.SaveMovimientoMsg:
		if msg.Update != nil {
			return m, m.actualizarMovimiento(*msg.Update)
		}
		if msg.Create != nil {
			return m, m.crearMovimiento(*msg.Create)
		}
		return m, nil

	case components.DeleteMovimientoMsg:
		return m, m.eliminarMovimiento(msg.ID)

	case components.SaveCategoriaMsg:
		if msg.Update != nil {
			return m, m.actualizarCategoria(*msg.Update)
		}
		if msg.Create != nil {
			return m, m.crearCategoria(*msg.Create)
		}
		return m, nil

	case components.DeleteCategoriaMsg:
		return m, m.eliminarCategoria(msg.Categoria)

	case components.SettingChangedMsg:
		if err := m.settings.Set(msg.Field, msg.Value); err != nil {
			m.lastError = err
		}
		return m, nil

	case components.LoadYearMsg:
		return m, m.loadReporteMensual(msg.Year)

	case settingsChangedMsg:
		m.dashboard.SetSettings(msg.settings)
		m.movimientos.SetSettings(msg.settings)
		m.reportes.SetSettings(msg.settings)
		m.ajustes.SetSettings(msg.settings)
		// Re-arm the subscription for the next change.
		return m, watchSettings(m.settingsCh)

	case sessionExpiredMsg:
		m.expired = true
		m.quitting = true
		m.unsubscribe()
		return m, tea.Quit
	}

	return m.updatePage(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry takes priority over everything except force quit.
	if m.editing() {
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			m.unsubscribe()
			return m, tea.Quit
		}
		return m.updatePage(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit), key.Matches(msg, m.keymap.ForceQuit):
		m.quitting = true
		m.unsubscribe()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.NextPage):
		m.page = (m.page + 1) % pageCount
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keymap.PrevPage):
		m.page = (m.page + pageCount - 1) % pageCount
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		m.status = "Actualizando..."
		return m, m.reload()

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.Back):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
	}

	return m.updatePage(msg)
}

func (m Model) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case PageDashboard:
		// The dashboard is read only.
	case PageMovimientos:
		m.movimientos, cmd = m.movimientos.Update(msg)
	case PageCategorias:
		m.categorias, cmd = m.categorias.Update(msg)
	case PageReportes:
		m.reportes, cmd = m.reportes.Update(msg)
	case PageAjustes:
		m.ajustes, cmd = m.ajustes.Update(msg)
	}
	return m, cmd
}

// reload refetches everything after a mutation or an explicit refresh.
func (m Model) reload() tea.Cmd {
	return tea.Batch(
		m.loadResumen(),
		m.loadRecientes(),
		m.loadMovimientos(),
		m.loadCategorias(),
		m.loadReporteCategorias(),
		m.loadReporteMensual(m.reportes.Year()),
	)
}

// SessionExpired reports whether the TUI quit because the backend rejected
// the token.
func (m Model) SessionExpired() bool {
	return m.expired
}
