package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAjustesRendersCurrentValues(t *testing.T) {
	m := NewAjustes(themes.Default, settings.Defaults())

	view := m.View()
	assert.Contains(t, view, "Moneda")
	assert.Contains(t, view, "USD")
	assert.Contains(t, view, "DD/MM/YYYY")
	assert.Contains(t, view, "Vista previa")
}

func TestAjustesCycleCurrency(t *testing.T) {
	m := NewAjustes(themes.Default, settings.Defaults())

	var cmd tea.Cmd
	m, cmd = m.Update(keyPress("right"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(SettingChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "currency", msg.Field)
	assert.NotEqual(t, "USD", msg.Value)
}

func TestAjustesCycleDateFormat(t *testing.T) {
	m := NewAjustes(themes.Default, settings.Defaults())

	m, _ = m.Update(keyPress("down"))
	m, _ = m.Update(keyPress("down"))

	var cmd tea.Cmd
	m, cmd = m.Update(keyPress("right"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(SettingChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "dateFormat", msg.Field)
	assert.Equal(t, "MM/DD/YYYY", msg.Value)
}

func TestAjustesPreviewFollowsSettings(t *testing.T) {
	m := NewAjustes(themes.Default, settings.Defaults())

	prefs := settings.Defaults()
	prefs.Currency = "EUR"
	prefs.DateFormat = "YYYY-MM-DD"
	m.SetSettings(prefs)

	view := m.View()
	assert.Contains(t, view, "€1,234.56")
	assert.Contains(t, view, "2025-03-14")
}

func TestNextOption(t *testing.T) {
	options := []string{"a", "b", "c"}

	assert.Equal(t, "b", nextOption(options, "a", 1))
	assert.Equal(t, "a", nextOption(options, "c", 1))
	assert.Equal(t, "c", nextOption(options, "a", -1))
	assert.Equal(t, "b", nextOption(options, "desconocido", 1))
}
