package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/tui/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCategorias() []model.Categoria {
	return []model.Categoria{
		{ID: 1, Nombre: "Alimentación", EsPredefinida: true},
		{ID: 8, Nombre: "Mascotas", Descripcion: "Veterinaria y comida"},
	}
}

func TestCategoriasListRendersRows(t *testing.T) {
	m := NewCategorias(themes.Default)
	m.SetCategorias(sampleCategorias())

	view := m.View()
	assert.Contains(t, view, "Alimentación")
	assert.Contains(t, view, "Predefinida")
	assert.Contains(t, view, "Propia")
}

func TestCategoriasCreateEmitsDTO(t *testing.T) {
	m := NewCategorias(themes.Default)
	m.SetCategorias(nil)

	m, _ = m.Update(keyPress("n"))
	assert.True(t, m.Editing())
	for _, r := range "Viajes" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	var cmd tea.Cmd
	m, cmd = m.Update(keyPress("enter"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(SaveCategoriaMsg)
	require.True(t, ok)
	require.NotNil(t, msg.Create)
	assert.Equal(t, "Viajes", msg.Create.Nombre)

	// The form stays open until the parent confirms the save.
	assert.True(t, m.Editing())
	m.FormSaved()
	assert.False(t, m.Editing())
}

func TestCategoriasNombreRequired(t *testing.T) {
	m := NewCategorias(themes.Default)

	m, _ = m.Update(keyPress("n"))
	m, cmd := m.Update(keyPress("enter"))

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "El nombre es obligatorio")
}

func TestCategoriasEditEmitsUpdateDTO(t *testing.T) {
	m := NewCategorias(themes.Default)
	m.SetCategorias(sampleCategorias())

	m, _ = m.Update(keyPress("e"))
	assert.Contains(t, m.View(), "Editar categoría")

	var cmd tea.Cmd
	m, cmd = m.Update(keyPress("enter"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(SaveCategoriaMsg)
	require.True(t, ok)
	require.NotNil(t, msg.Update)
	assert.Equal(t, int64(1), msg.Update.ID)
	assert.Equal(t, "Alimentación", msg.Update.Nombre)
}

func TestCategoriasPredefinidaCannotBeDeleted(t *testing.T) {
	m := NewCategorias(themes.Default)
	m.SetCategorias(sampleCategorias())

	m, cmd := m.Update(keyPress("d"))

	assert.Nil(t, cmd)
	assert.False(t, m.Editing())
	assert.Contains(t, m.View(), "no se pueden eliminar")
}

func TestCategoriasDeleteConfirmed(t *testing.T) {
	m := NewCategorias(themes.Default)
	m.SetCategorias(sampleCategorias())

	// Move to the second, user-defined category.
	m, _ = m.Update(keyPress("down"))
	m, _ = m.Update(keyPress("d"))
	assert.Contains(t, m.View(), "¿Eliminar la categoría")

	var cmd tea.Cmd
	m, cmd = m.Update(keyPress("s"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(DeleteCategoriaMsg)
	require.True(t, ok)
	assert.Equal(t, int64(8), msg.Categoria.ID)
}
