// Package model defines the domain records exchanged with the gastos
// personales backend.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TipoMovimiento distinguishes income from expense movements.
type TipoMovimiento string

const (
	// TipoIngreso marks an income movement.
	TipoIngreso TipoMovimiento = "INGRESO"
	// TipoGasto marks an expense movement.
	TipoGasto TipoMovimiento = "GASTO"
)

// Valid reports whether the value is one of the two known movement types.
func (t TipoMovimiento) Valid() bool {
	return t == TipoIngreso || t == TipoGasto
}

// Movimiento is a single income or expense transaction. Monto is always an
// absolute value; direction comes from Tipo, never from the numeric sign.
type Movimiento struct {
	FechaMovimiento time.Time
	FechaCreacion   time.Time
	Descripcion     string
	Tipo            TipoMovimiento
	Categoria       Categoria
	Monto           float64
	ID              int64
}

// MovimientoCreateDTO carries the fields needed to create a movement.
type MovimientoCreateDTO struct {
	Descripcion     string
	FechaMovimiento time.Time
	Tipo            TipoMovimiento
	Monto           float64
	CategoriaID     int64
}

// Validate checks the create DTO locally so invalid writes never reach the
// network.
func (d MovimientoCreateDTO) Validate() error {
	if strings.TrimSpace(d.Descripcion) == "" {
		return fmt.Errorf("%w: descripcion is required", ErrValidation)
	}
	if d.Monto <= 0 {
		return fmt.Errorf("%w: monto must be greater than 0", ErrValidation)
	}
	if d.CategoriaID <= 0 {
		return fmt.Errorf("%w: valid categoria ID is required", ErrValidation)
	}
	if !d.Tipo.Valid() {
		return fmt.Errorf("%w: tipo must be INGRESO or GASTO", ErrValidation)
	}
	return nil
}

// MovimientoUpdateDTO carries a partial update for an existing movement.
// Zero-valued fields are left untouched by the backend.
type MovimientoUpdateDTO struct {
	Descripcion string
	Monto       float64
	CategoriaID int64
	ID          int64
}

// Validate checks the update DTO locally.
func (d MovimientoUpdateDTO) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("%w: valid movimiento ID is required", ErrValidation)
	}
	if d.Monto < 0 {
		return fmt.Errorf("%w: monto must be greater than 0", ErrValidation)
	}
	return nil
}

// FiltroMovimientos narrows a movement listing. Zero values mean "no filter".
type FiltroMovimientos struct {
	FechaDesde  time.Time
	FechaHasta  time.Time
	Descripcion string
	Tipo        TipoMovimiento
	CategoriaID int64
}

// IsZero reports whether no filter was set at all.
func (f FiltroMovimientos) IsZero() bool {
	return f.CategoriaID == 0 && f.Tipo == "" && f.Descripcion == "" &&
		f.FechaDesde.IsZero() && f.FechaHasta.IsZero()
}
