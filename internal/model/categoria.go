package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation marks errors caught locally before any network call.
var ErrValidation = errors.New("validation failed")

// Categoria groups movements under a user-defined or system-seeded label.
// Predefined categories are seeded by the backend and cannot be deleted.
type Categoria struct {
	FechaCreacion time.Time
	Nombre        string
	Descripcion   string
	Color         string
	Icono         string
	ID            int64
	Activa        bool
	EsPredefinida bool
}

// CategoriaCreateDTO carries the fields needed to create a category.
type CategoriaCreateDTO struct {
	Nombre      string
	Descripcion string
	Color       string
	Icono       string
}

// Validate checks the create DTO locally.
func (d CategoriaCreateDTO) Validate() error {
	if strings.TrimSpace(d.Nombre) == "" {
		return fmt.Errorf("%w: nombre is required", ErrValidation)
	}
	return nil
}

// CategoriaUpdateDTO carries a partial update for an existing category.
type CategoriaUpdateDTO struct {
	Nombre      string
	Descripcion string
	Color       string
	Icono       string
	ID          int64
}

// Validate checks the update DTO locally.
func (d CategoriaUpdateDTO) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("%w: valid categoria ID is required", ErrValidation)
	}
	return nil
}
