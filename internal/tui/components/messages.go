package components

import "github.com/gastos-cli/gastos/internal/model"

// SaveMovimientoMsg is sent when the movement form is submitted. Exactly one
// of Create or Update is set.
type SaveMovimientoMsg struct {
	Create *model.MovimientoCreateDTO
	Update *model.MovimientoUpdateDTO
}

// DeleteMovimientoMsg is sent when a movement deletion is confirmed.
type DeleteMovimientoMsg struct {
	ID int64
}

// SaveCategoriaMsg is sent when the category form is submitted. Exactly one
// of Create or Update is set.
type SaveCategoriaMsg struct {
	Create *model.CategoriaCreateDTO
	Update *model.CategoriaUpdateDTO
}

// DeleteCategoriaMsg is sent when a category deletion is confirmed.
type DeleteCategoriaMsg struct {
	Categoria model.Categoria
}

// SettingChangedMsg is sent when the user picks a new preference value.
type SettingChangedMsg struct {
	Field string
	Value string
}

// LoadYearMsg asks for the monthly report of a different year.
type LoadYearMsg struct {
	Year int
}
