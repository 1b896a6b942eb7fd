package main

import (
	"bytes"
	"testing"

	"github.com/gastos-cli/gastos/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPrintResumenCategorias(t *testing.T) {
	var buf bytes.Buffer

	printResumenCategorias(&buf, []model.CategoriaResumen{
		{Categoria: model.Categoria{Nombre: "Comida"}, TotalGastos: 100, MovimientosCount: 4, Porcentaje: 33.3},
		{Categoria: model.Categoria{Nombre: "Transporte"}, TotalGastos: 200, MovimientosCount: 2, Porcentaje: 66.7},
	}, "USD")

	out := buf.String()
	assert.Contains(t, out, "Comida")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "33.3%")
	assert.NotContains(t, out, "%%")
}
