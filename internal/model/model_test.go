package model

import (
	"errors"
	"testing"
	"time"
)

func TestMovimientoCreateDTO_Validate(t *testing.T) {
	valid := MovimientoCreateDTO{
		Descripcion: "Supermercado",
		Monto:       45.20,
		Tipo:        TipoGasto,
		CategoriaID: 3,
	}

	tests := []struct {
		mutate  func(*MovimientoCreateDTO)
		name    string
		wantErr bool
	}{
		{name: "valid expense", mutate: func(*MovimientoCreateDTO) {}, wantErr: false},
		{name: "valid income", mutate: func(d *MovimientoCreateDTO) { d.Tipo = TipoIngreso }, wantErr: false},
		{name: "empty descripcion", mutate: func(d *MovimientoCreateDTO) { d.Descripcion = "" }, wantErr: true},
		{name: "whitespace descripcion", mutate: func(d *MovimientoCreateDTO) { d.Descripcion = "   " }, wantErr: true},
		{name: "zero monto", mutate: func(d *MovimientoCreateDTO) { d.Monto = 0 }, wantErr: true},
		{name: "negative monto", mutate: func(d *MovimientoCreateDTO) { d.Monto = -10 }, wantErr: true},
		{name: "missing categoria", mutate: func(d *MovimientoCreateDTO) { d.CategoriaID = 0 }, wantErr: true},
		{name: "unknown tipo", mutate: func(d *MovimientoCreateDTO) { d.Tipo = "TRANSFERENCIA" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := valid
			tt.mutate(&dto)
			err := dto.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error should wrap ErrValidation, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMovimientoUpdateDTO_Validate(t *testing.T) {
	if err := (MovimientoUpdateDTO{ID: 7, Monto: 12.5}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (MovimientoUpdateDTO{ID: 0}).Validate(); err == nil {
		t.Fatal("expected error for missing ID")
	}
	if err := (MovimientoUpdateDTO{ID: 7, Monto: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative monto")
	}
}

func TestCategoriaDTO_Validate(t *testing.T) {
	if err := (CategoriaCreateDTO{Nombre: "Hogar"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (CategoriaCreateDTO{Nombre: "  "}).Validate(); err == nil {
		t.Fatal("expected error for blank nombre")
	}
	if err := (CategoriaUpdateDTO{ID: 2, Nombre: "Hogar"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (CategoriaUpdateDTO{Nombre: "Hogar"}).Validate(); err == nil {
		t.Fatal("expected error for missing ID")
	}
}

func TestFiltroMovimientos_IsZero(t *testing.T) {
	if !(FiltroMovimientos{}).IsZero() {
		t.Fatal("empty filter should be zero")
	}
	f := FiltroMovimientos{FechaDesde: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	if f.IsZero() {
		t.Fatal("filter with date should not be zero")
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{Username: "maria", Password: "secret1", Email: "maria@example.com", Nombre: "María"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := valid
	bad.Email = "not-an-email"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for invalid email")
	}
	bad = valid
	bad.Password = "abc"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for short password")
	}
}
