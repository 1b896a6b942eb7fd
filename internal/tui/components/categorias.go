package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/tui/themes"
)

type categoriasMode int

const (
	catListMode categoriasMode = iota
	catFormMode
	catConfirmDeleteMode
)

const (
	catFieldNombre = iota
	catFieldDescripcion
	catFieldColor
	catFieldIcono
	catFieldCount
)

// CategoriasModel manages the categories page.
type CategoriasModel struct {
	theme      themes.Theme
	err        error
	categorias []model.Categoria
	inputs     []textinput.Model
	table      table.Model
	editing    *model.Categoria
	formError  string
	focus      int
	width      int
	height     int
	mode       categoriasMode
	loading    bool
}

// NewCategorias creates the categories page.
func NewCategorias(theme themes.Theme) CategoriasModel {
	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Nombre", Width: 20},
		{Title: "Descripción", Width: 32},
		{Title: "Tipo", Width: 12},
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

	inputs := make([]textinput.Model, catFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 60
	}
	inputs[catFieldNombre].Placeholder = "Nombre"
	inputs[catFieldDescripcion].Placeholder = "Descripción"
	inputs[catFieldColor].Placeholder = "#36c48f"
	inputs[catFieldColor].CharLimit = 7
	inputs[catFieldIcono].Placeholder = "Emoji"
	inputs[catFieldIcono].CharLimit = 4

	return CategoriasModel{
		theme:   theme,
		table:   t,
		inputs:  inputs,
		loading: true,
	}
}

// SetCategorias replaces the table contents.
func (m *CategoriasModel) SetCategorias(categorias []model.Categoria) {
	m.categorias = categorias
	m.loading = false
	m.err = nil

	rows := make([]table.Row, 0, len(categorias))
	for _, cat := range categorias {
		kind := "Propia"
		if cat.EsPredefinida {
			kind = "Predefinida"
		}
		icon := cat.Icono
		if icon == "" {
			icon = themes.GetCategoryIcon(cat.Nombre)
		}
		rows = append(rows, table.Row{icon, cat.Nombre, cat.Descripcion, kind})
	}
	m.table.SetRows(rows)
}

// SetError records a load failure.
func (m *CategoriasModel) SetError(err error) {
	m.err = err
	m.loading = false
}

// Resize updates the component size.
func (m *CategoriasModel) Resize(width, height int) {
	m.width = width
	m.height = height
	if height > 10 {
		m.table.SetHeight(height - 8)
	}
}

// Editing reports whether the page is capturing text input.
func (m CategoriasModel) Editing() bool {
	return m.mode != catListMode
}

func (m CategoriasModel) selected() *model.Categoria {
	ix := m.table.Cursor()
	if ix < 0 || ix >= len(m.categorias) {
		return nil
	}
	return &m.categorias[ix]
}

// Update handles messages.
func (m CategoriasModel) Update(msg tea.Msg) (CategoriasModel, tea.Cmd) {
	switch m.mode {
	case catFormMode:
		return m.updateForm(msg)
	case catConfirmDeleteMode:
		return m.updateConfirmDelete(msg)
	default:
		return m.updateList(msg)
	}
}

func (m CategoriasModel) updateList(msg tea.Msg) (CategoriasModel, tea.Cmd) {
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
		if cat := m.selected(); cat != nil {
			m.openForm(cat)
		}
		return m, nil
	case "d", "delete":
		cat := m.selected()
		if cat == nil {
			return m, nil
		}
		if cat.EsPredefinida {
			m.formError = "Las categorías predefinidas no se pueden eliminar"
			return m, nil
		}
		m.formError = ""
		m.mode = catConfirmDeleteMode
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *CategoriasModel) openForm(cat *model.Categoria) {
	m.mode = catFormMode
	m.editing = cat
	m.formError = ""

	if cat != nil {
		m.inputs[catFieldNombre].SetValue(cat.Nombre)
		m.inputs[catFieldDescripcion].SetValue(cat.Descripcion)
		m.inputs[catFieldColor].SetValue(cat.Color)
		m.inputs[catFieldIcono].SetValue(cat.Icono)
	} else {
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
	}

	m.setFocus(catFieldNombre)
}

// FormSaved closes the form after a mutation succeeds.
func (m *CategoriasModel) FormSaved() {
	m.mode = catListMode
	m.editing = nil
	m.formError = ""
}

// SetFormError keeps the form open and shows the mutation error inline.
func (m *CategoriasModel) SetFormError(msg string) {
	if m.mode == catFormMode {
		m.formError = msg
	}
}

func (m *CategoriasModel) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m CategoriasModel) updateForm(msg tea.Msg) (CategoriasModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.mode = catListMode
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % catFieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + catFieldCount - 1) % catFieldCount)
		return m, nil
	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m CategoriasModel) submitForm() (CategoriasModel, tea.Cmd) {
	nombre := strings.TrimSpace(m.inputs[catFieldNombre].Value())
	if nombre == "" {
		m.formError = "El nombre es obligatorio"
		return m, nil
	}

	descripcion := strings.TrimSpace(m.inputs[catFieldDescripcion].Value())
	color := strings.TrimSpace(m.inputs[catFieldColor].Value())
	icono := strings.TrimSpace(m.inputs[catFieldIcono].Value())

	// The form stays open until the mutation result comes back; the parent
	// calls FormSaved or SetFormError.
	m.formError = ""

	if m.editing != nil {
		dto := model.CategoriaUpdateDTO{
			ID:          m.editing.ID,
			Nombre:      nombre,
			Descripcion: descripcion,
			Color:       color,
			Icono:       icono,
		}
		return m, func() tea.Msg { return SaveCategoriaMsg{Update: &dto} }
	}

	dto := model.CategoriaCreateDTO{
		Nombre:      nombre,
		Descripcion: descripcion,
		Color:       color,
		Icono:       icono,
	}
	return m, func() tea.Msg { return SaveCategoriaMsg{Create: &dto} }
}

func (m CategoriasModel) updateConfirmDelete(msg tea.Msg) (CategoriasModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "s", "y", "enter":
		cat := m.selected()
		m.mode = catListMode
		if cat == nil {
			return m, nil
		}
		categoria := *cat
		return m, func() tea.Msg { return DeleteCategoriaMsg{Categoria: categoria} }
	case "n", "esc":
		m.mode = catListMode
	}
	return m, nil
}

// View renders the categories page.
func (m CategoriasModel) View() string {
	switch m.mode {
	case catFormMode:
		return m.renderForm()
	case catConfirmDeleteMode:
		return m.renderConfirmDelete()
	}

	if m.loading {
		return m.theme.Subtitle.Render("Cargando categorías...")
	}
	if m.err != nil {
		return m.theme.StatusError.Render("No se pudieron cargar las categorías: " + m.err.Error())
	}

	sections := []string{m.table.View()}
	if m.formError != "" {
		sections = append(sections, m.theme.StatusWarning.Render(m.formError))
	}
	sections = append(sections, m.theme.Subtitle.Render("n nueva · e editar · d eliminar"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m CategoriasModel) renderForm() string {
	title := "Nueva categoría"
	if m.editing != nil {
		title = "Editar categoría"
	}

	labels := []string{"Nombre", "Descripción", "Color", "Icono"}
	var rows []string
	for i, label := range labels {
		marker := "  "
		if m.focus == i {
			marker = m.theme.StatusInfo.Render("> ")
		}
		rows = append(rows, fmt.Sprintf("%s%-12s %s", marker, label+":", m.inputs[i].View()))
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

func (m CategoriasModel) renderConfirmDelete() string {
	cat := m.selected()
	if cat == nil {
		return ""
	}
	return m.theme.BorderedBox.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.StatusWarning.Render(fmt.Sprintf("¿Eliminar la categoría %q?", cat.Nombre)),
		m.theme.Subtitle.Render("s confirmar · n cancelar"),
	))
}
