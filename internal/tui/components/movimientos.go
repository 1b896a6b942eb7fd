package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gastos-cli/gastos/internal/format"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/themes"
)

// movimientosMode is the current sub-view of the movements page.
type movimientosMode int

const (
	movListMode movimientosMode = iota
	movFormMode
	movConfirmDeleteMode
)

// Form field order.
const (
	fieldDescripcion = iota
	fieldMonto
	fieldFecha
	fieldTipo
	fieldCategoria
	fieldCount
)

// MovimientosModel manages the movements page: a table with an inline create
// and edit form and a delete confirmation.
type MovimientosModel struct {
	theme       themes.Theme
	settings    settings.Settings
	err         error
	movimientos []model.Movimiento
	categorias  []model.Categoria
	inputs      []textinput.Model
	table       table.Model
	editing     *model.Movimiento
	formError   string
	tipo        model.TipoMovimiento
	categoriaIx int
	focus       int
	width       int
	height      int
	mode        movimientosMode
	loading     bool
}

// NewMovimientos creates the movements page.
func NewMovimientos(theme themes.Theme, prefs settings.Settings) MovimientosModel {
	columns := []table.Column{
		{Title: "Fecha", Width: 12},
		{Title: "Descripción", Width: 30},
		{Title: "Categoría", Width: 18},
		{Title: "Monto", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 80
	}
	inputs[fieldDescripcion].Placeholder = "Descripción"
	inputs[fieldMonto].Placeholder = "Monto"
	inputs[fieldMonto].CharLimit = 15
	inputs[fieldFecha].Placeholder = "Fecha"

	return MovimientosModel{
		theme:    theme,
		settings: prefs,
		table:    t,
		inputs:   inputs,
		tipo:     model.TipoGasto,
		loading:  true,
	}
}

// SetMovimientos replaces the table contents.
func (m *MovimientosModel) SetMovimientos(movimientos []model.Movimiento) {
	m.movimientos = movimientos
	m.loading = false
	m.err = nil
	m.refreshRows()
}

// SetCategorias stores the categories the form can pick from.
func (m *MovimientosModel) SetCategorias(categorias []model.Categoria) {
	m.categorias = categorias
	if m.categoriaIx >= len(categorias) {
		m.categoriaIx = 0
	}
}

// SetError records a load failure.
func (m *MovimientosModel) SetError(err error) {
	m.err = err
	m.loading = false
}

// SetSettings reformats the table with new preferences.
func (m *MovimientosModel) SetSettings(prefs settings.Settings) {
	m.settings = prefs
	m.refreshRows()
}

// Resize updates the component size.
func (m *MovimientosModel) Resize(width, height int) {
	m.width = width
	m.height = height
	if height > 10 {
		m.table.SetHeight(height - 8)
	}
}

// Editing reports whether the page is capturing text input, so the parent
// keeps global key bindings out of the way.
func (m MovimientosModel) Editing() bool {
	return m.mode != movListMode
}

func (m *MovimientosModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.movimientos))
	for _, mov := range m.movimientos {
		amount := format.Money(mov.Monto, m.settings.Currency)
		if mov.Tipo == model.TipoGasto {
			amount = "-" + amount
		} else {
			amount = "+" + amount
		}
		rows = append(rows, table.Row{
			format.Date(mov.FechaMovimiento, m.settings.DateFormat),
			mov.Descripcion,
			mov.Categoria.Nombre,
			amount,
		})
	}
	m.table.SetRows(rows)
}

func (m MovimientosModel) selected() *model.Movimiento {
	ix := m.table.Cursor()
	if ix < 0 || ix >= len(m.movimientos) {
		return nil
	}
	return &m.movimientos[ix]
}

// Update handles messages.
func (m MovimientosModel) Update(msg tea.Msg) (MovimientosModel, tea.Cmd) {
	switch m.mode {
	case movFormMode:
		return m.updateForm(msg)
	case movConfirmDeleteMode:
		return m.updateConfirmDelete(msg)
	default:
		return m.updateList(msg)
	}
}

func (m MovimientosModel) updateList(msg tea.Msg) (MovimientosModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "n":
		m.openForm(nil)
		return m, nil
	case "e":
		if mov := m.selected(); mov != nil {
			m.openForm(mov)
		}
		return m, nil
	case "d", "delete":
		if m.selected() != nil {
			m.mode = movConfirmDeleteMode
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *MovimientosModel) openForm(mov *model.Movimiento) {
	m.mode = movFormMode
	m.editing = mov
	m.formError = ""
	m.focus = fieldDescripcion

	if mov != nil {
		m.inputs[fieldDescripcion].SetValue(mov.Descripcion)
		m.inputs[fieldMonto].SetValue(strconv.FormatFloat(mov.Monto, 'f', -1, 64))
		m.inputs[fieldFecha].SetValue(format.Date(mov.FechaMovimiento, m.settings.DateFormat))
		m.tipo = mov.Tipo
		m.categoriaIx = 0
		for i, cat := range m.categorias {
			if cat.ID == mov.Categoria.ID {
				m.categoriaIx = i
				break
			}
		}
	} else {
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.inputs[fieldFecha].SetValue(format.Date(time.Now(), m.settings.DateFormat))
		m.tipo = model.TipoGasto
	}

	m.setFocus(fieldDescripcion)
}

// FormSaved closes the form after a mutation succeeds.
func (m *MovimientosModel) FormSaved() {
	m.mode = movListMode
	m.editing = nil
	m.formError = ""
}

// SetFormError keeps the form open and shows the mutation error inline.
func (m *MovimientosModel) SetFormError(msg string) {
	if m.mode == movFormMode {
		m.formError = msg
	}
}

func (m *MovimientosModel) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m MovimientosModel) updateForm(msg tea.Msg) (MovimientosModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.mode = movListMode
		return m, nil
	case "tab", "down":
		m.setFocus(m.nextField(m.focus, 1))
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.nextField(m.focus, -1))
		return m, nil
	case "enter":
		return m.submitForm()
	case "left", "right":
		switch m.focus {
		case fieldTipo:
			if m.tipo == model.TipoGasto {
				m.tipo = model.TipoIngreso
			} else {
				m.tipo = model.TipoGasto
			}
			return m, nil
		case fieldCategoria:
			if n := len(m.categorias); n > 0 {
				if keyMsg.String() == "right" {
					m.categoriaIx = (m.categoriaIx + 1) % n
				} else {
					m.categoriaIx = (m.categoriaIx + n - 1) % n
				}
			}
			return m, nil
		}
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// nextField advances the focus, skipping the date and kind fields while
// editing since the backend keeps both on update.
func (m MovimientosModel) nextField(from, dir int) int {
	field := from
	for {
		field = (field + dir + fieldCount) % fieldCount
		if m.editing != nil && (field == fieldFecha || field == fieldTipo) {
			continue
		}
		return field
	}
}

func (m MovimientosModel) submitForm() (MovimientosModel, tea.Cmd) {
	descripcion := strings.TrimSpace(m.inputs[fieldDescripcion].Value())
	if descripcion == "" {
		m.formError = "La descripción es obligatoria"
		return m, nil
	}

	raw := strings.ReplaceAll(strings.TrimSpace(m.inputs[fieldMonto].Value()), ",", ".")
	monto, err := strconv.ParseFloat(raw, 64)
	if err != nil || monto <= 0 {
		m.formError = "Ingrese un monto mayor que cero"
		return m, nil
	}

	fecha, err := format.ParseDate(strings.TrimSpace(m.inputs[fieldFecha].Value()), m.settings.DateFormat)
	if err != nil {
		m.formError = "Fecha inválida, use el formato " + m.settings.DateFormat
		return m, nil
	}

	if len(m.categorias) == 0 {
		m.formError = "No hay categorías disponibles"
		return m, nil
	}
	categoria := m.categorias[m.categoriaIx]

	// The form stays open until the mutation result comes back; the parent
	// calls FormSaved or SetFormError.
	m.formError = ""

	if m.editing != nil {
		dto := model.MovimientoUpdateDTO{
			ID:          m.editing.ID,
			Descripcion: descripcion,
			Monto:       monto,
			CategoriaID: categoria.ID,
		}
		return m, func() tea.Msg { return SaveMovimientoMsg{Update: &dto} }
	}

	dto := model.MovimientoCreateDTO{
		Descripcion:     descripcion,
		Monto:           monto,
		FechaMovimiento: fecha,
		Tipo:            m.tipo,
		CategoriaID:     categoria.ID,
	}
	return m, func() tea.Msg { return SaveMovimientoMsg{Create: &dto} }
}

func (m MovimientosModel) updateConfirmDelete(msg tea.Msg) (MovimientosModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "s", "y", "enter":
		mov := m.selected()
		m.mode = movListMode
		if mov == nil {
			return m, nil
		}
		id := mov.ID
		return m, func() tea.Msg { return DeleteMovimientoMsg{ID: id} }
	case "n", "esc":
		m.mode = movListMode
	}
	return m, nil
}

// View renders the movements page.
func (m MovimientosModel) View() string {
	switch m.mode {
	case movFormMode:
		return m.renderForm()
	case movConfirmDeleteMode:
		return m.renderConfirmDelete()
	}

	if m.loading {
		return m.theme.Subtitle.Render("Cargando movimientos...")
	}
	if m.err != nil {
		return m.theme.StatusError.Render("No se pudieron cargar los movimientos: " + m.err.Error())
	}
	if len(m.movimientos) == 0 {
		return m.theme.Normal.Render("Todavía no hay movimientos. Presione 'n' para crear uno.")
	}

	help := m.theme.Subtitle.Render("n nuevo · e editar · d eliminar")
	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), help)
}

func (m MovimientosModel) renderForm() string {
	title := "Nuevo movimiento"
	if m.editing != nil {
		title = "Editar movimiento"
	}

	tipoLabel := "Gasto"
	tipoStyle := m.theme.Expense
	if m.tipo == model.TipoIngreso {
		tipoLabel = "Ingreso"
		tipoStyle = m.theme.Income
	}

	categoria := "(sin categorías)"
	if len(m.categorias) > 0 {
		cat := m.categorias[m.categoriaIx]
		categoria = themes.GetCategoryIcon(cat.Nombre) + " " + cat.Nombre
	}

	rows := []string{
		m.renderFormRow(fieldDescripcion, "Descripción", m.inputs[fieldDescripcion].View()),
		m.renderFormRow(fieldMonto, "Monto", m.inputs[fieldMonto].View()),
		m.renderFormRow(fieldFecha, "Fecha", m.inputs[fieldFecha].View()),
		m.renderFormRow(fieldTipo, "Tipo", tipoStyle.Render("< "+tipoLabel+" >")),
		m.renderFormRow(fieldCategoria, "Categoría", "< "+categoria+" >"),
	}
	if m.editing != nil {
		// The backend keeps the original date and kind on update.
		rows = append(rows[:2], m.renderFormRow(fieldCategoria, "Categoría", "< "+categoria+" >"))
	}

	sections := []string{
		m.theme.Title.Render(title),
		strings.Join(rows, "\n"),
	}
	if m.formError != "" {
		sections = append(sections, m.theme.StatusError.Render(m.formError))
	}
	sections = append(sections, m.theme.Subtitle.Render("enter guardar · tab siguiente campo · esc cancelar"))

	return m.theme.BorderedBox.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m MovimientosModel) renderFormRow(field int, label, value string) string {
	marker := "  "
	if m.focus == field {
		marker = m.theme.StatusInfo.Render("> ")
	}
	return fmt.Sprintf("%s%-12s %s", marker, label+":", value)
}

func (m MovimientosModel) renderConfirmDelete() string {
	mov := m.selected()
	if mov == nil {
		return ""
	}
	question := fmt.Sprintf("¿Eliminar el movimiento %q de %s?",
		mov.Descripcion,
		format.Money(mov.Monto, m.settings.Currency),
	)
	return m.theme.BorderedBox.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.StatusWarning.Render(question),
		m.theme.Subtitle.Render("s confirmar · n cancelar"),
	))
}
