package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gastos-cli/gastos/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumberSafe(t *testing.T) {
	tests := []struct {
		value any
		name  string
		want  float64
	}{
		{name: "nil", value: nil, want: 0},
		{name: "float", value: 150.5, want: 150.5},
		{name: "numeric string", value: "42.25", want: 42.25},
		{name: "padded string", value: " 10 ", want: 10},
		{name: "garbage string", value: "abc", want: 0},
		{name: "doubleValue wrapper", value: map[string]any{"doubleValue": 99.9}, want: 99.9},
		{name: "nested string wrapper", value: map[string]any{"doubleValue": "7"}, want: 7},
		{name: "wrapper without doubleValue", value: map[string]any{"value": 3.0}, want: 0},
		{name: "bool", value: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, toNumberSafe(tt.value), 1e-9)
		})
	}
}

func TestNormalizeMovimiento_FieldNameDrift(t *testing.T) {
	// Every historical shape of the same movement must normalize identically.
	payloads := []string{
		`{"id": 1, "descripcion": "Salario", "monto": 150.0, "fecha": "2025-03-10", "tipo": "INGRESO"}`,
		`{"id": 1, "descripcion": " Salario ", "amount": "150.00", "fechaMovimiento": "2025-03-10T00:00:00", "tipoMovimiento": "INGRESO"}`,
		`{"id": "1", "descripcion": "Salario", "monto": {"doubleValue": 150}, "fechaMov": "2025-03-10", "esGasto": false}`,
		`{"id": 1, "descripcion": "Salario", "monto": 150, "fechaMovimientoISO": "2025-03-10T00:00:00", "tipo": "ingreso"}`,
	}

	for i, payload := range payloads {
		var raw movimientoRaw
		require.NoError(t, json.Unmarshal([]byte(payload), &raw), "payload %d", i)

		m := normalizeMovimiento(raw)
		assert.Equal(t, int64(1), m.ID, "payload %d", i)
		assert.Equal(t, "Salario", m.Descripcion, "payload %d", i)
		assert.InDelta(t, 150.0, m.Monto, 1e-9, "payload %d", i)
		assert.Equal(t, model.TipoIngreso, m.Tipo, "payload %d", i)
		assert.Equal(t, 2025, m.FechaMovimiento.Year(), "payload %d", i)
		assert.Equal(t, time.Month(3), m.FechaMovimiento.Month(), "payload %d", i)
		assert.Equal(t, 10, m.FechaMovimiento.Day(), "payload %d", i)
	}
}

func TestNormalizeMovimiento_EsGastoFallback(t *testing.T) {
	esGasto := true
	m := normalizeMovimiento(movimientoRaw{Descripcion: "Luz", Monto: -80.0, EsGasto: &esGasto})

	assert.Equal(t, model.TipoGasto, m.Tipo)
	// Amounts are always absolute; direction lives in Tipo.
	assert.InDelta(t, 80.0, m.Monto, 1e-9)
}

func TestNormalizeMovimiento_MissingCategoria(t *testing.T) {
	m := normalizeMovimiento(movimientoRaw{ID: 3.0, Descripcion: "Taxi", Monto: 12.0, Tipo: "GASTO"})

	assert.Equal(t, int64(-1), m.Categoria.ID)
	assert.True(t, m.Categoria.Activa)
}

func TestNormalizeMovimiento_Idempotent(t *testing.T) {
	raw := movimientoRaw{
		ID:          7.0,
		Descripcion: "  Internet  ",
		Amount:      "45.990",
		FechaMov:    "2025-06-01",
		Tipo:        "GASTO",
	}

	once := normalizeMovimiento(raw)

	// Re-project the normalized record through the canonical field names.
	again := normalizeMovimiento(movimientoRaw{
		ID:              float64(once.ID),
		Descripcion:     once.Descripcion,
		Monto:           once.Monto,
		FechaMovimiento: once.FechaMovimiento.Format(time.RFC3339),
		Tipo:            string(once.Tipo),
		FechaCreacion:   once.FechaCreacion.Format(time.RFC3339),
	})

	assert.Equal(t, once.ID, again.ID)
	assert.Equal(t, once.Descripcion, again.Descripcion)
	assert.InDelta(t, once.Monto, again.Monto, 1e-9)
	assert.Equal(t, once.Tipo, again.Tipo)
	assert.True(t, once.FechaMovimiento.Equal(again.FechaMovimiento))
}

func TestNormalizeCategoria_Defaults(t *testing.T) {
	c := normalizeCategoria(&categoriaRaw{ID: 4.0, Nombre: " Hogar "})
	assert.Equal(t, int64(4), c.ID)
	assert.Equal(t, "Hogar", c.Nombre)
	assert.True(t, c.Activa, "activa defaults to true when omitted")
	assert.False(t, c.EsPredefinida)

	inactive := false
	c = normalizeCategoria(&categoriaRaw{ID: 5.0, Nombre: "Otros", Activa: &inactive, EsPredefinida: true})
	assert.False(t, c.Activa)
	assert.True(t, c.EsPredefinida)
}

func TestNormalizeUsuario_UsernameDrift(t *testing.T) {
	u := normalizeUsuario(usuarioRaw{ID: 9.0, NombreUsuario: "maria", Email: "m@example.com"})
	assert.Equal(t, "maria", u.Username)
	assert.Equal(t, "maria", u.Nombre, "nombre falls back to username")

	u = normalizeUsuario(usuarioRaw{ID: 9.0, Username: "pedro", Nombre: "Pedro P"})
	assert.Equal(t, "pedro", u.Username)
	assert.Equal(t, "Pedro P", u.Nombre)
}

func TestDecodeMovimientoList_PaginatedAndArray(t *testing.T) {
	plain := `[{"id":1,"descripcion":"a","monto":1,"tipo":"GASTO","fecha":"2025-01-02"}]`
	paginated := `{"content":[{"id":1,"descripcion":"a","monto":1,"tipo":"GASTO","fecha":"2025-01-02"}],"totalElements":1}`

	fromPlain, err := decodeMovimientoList([]byte(plain))
	require.NoError(t, err)
	fromPage, err := decodeMovimientoList([]byte(paginated))
	require.NoError(t, err)

	require.Len(t, fromPlain, 1)
	require.Len(t, fromPage, 1)
	assert.Equal(t, fromPlain[0].ID, fromPage[0].ID)
	assert.Equal(t, fromPlain[0].Descripcion, fromPage[0].Descripcion)
}

func TestParseFecha(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantDay int
		isZero  bool
	}{
		{name: "rfc3339", input: "2025-04-05T10:30:00Z", wantDay: 5},
		{name: "no zone", input: "2025-04-05T10:30:00", wantDay: 5},
		{name: "bare date", input: "2025-04-05", wantDay: 5},
		{name: "empty", input: "", isZero: true},
		{name: "garbage", input: "05/04/2025", isZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFecha(tt.input)
			if tt.isZero {
				assert.True(t, got.IsZero())
				return
			}
			assert.Equal(t, tt.wantDay, got.Day())
		})
	}
}
