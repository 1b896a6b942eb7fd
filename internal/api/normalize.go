package api

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gastos-cli/gastos/internal/model"
)

// Raw DTO shapes. The backend renamed fields across versions, so every
// concept lists each historical name and normalization picks the first
// present. Numeric-like fields are `any` because some versions wrap numbers
// in {doubleValue: n} objects or send them as strings.

type movimientoRaw struct {
	ID                 any           `json:"id"`
	Monto              any           `json:"monto"`
	Amount             any           `json:"amount"`
	Categoria          *categoriaRaw `json:"categoria"`
	EsGasto            *bool         `json:"esGasto"`
	Descripcion        string        `json:"descripcion"`
	Fecha              string        `json:"fecha"`
	FechaMovimiento    string        `json:"fechaMovimiento"`
	FechaMov           string        `json:"fechaMov"`
	FechaMovimientoISO string        `json:"fechaMovimientoISO"`
	Tipo               string        `json:"tipo"`
	TipoMovimiento     string        `json:"tipoMovimiento"`
	FechaCreacion      string        `json:"fechaCreacion"`
}

type categoriaRaw struct {
	ID            any    `json:"id"`
	Activa        *bool  `json:"activa"`
	Nombre        string `json:"nombre"`
	Descripcion   string `json:"descripcion"`
	Color         string `json:"color"`
	Icono         string `json:"icono"`
	EsPredefinida bool   `json:"esPredefinida"`
	FechaCreacion string `json:"fechaCreacion"`
}

type usuarioRaw struct {
	ID            any    `json:"id"`
	Activo        *bool  `json:"activo"`
	NombreUsuario string `json:"nombreUsuario"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Nombre        string `json:"nombre"`
	FechaCreacion string `json:"fechaCreacion"`
	UltimoAcceso  string `json:"ultimoAcceso"`
}

// toNumberSafe coerces a decoded JSON value into a float64, defaulting to
// zero on anything unrecognized. Handles plain numbers, numeric strings and
// the {doubleValue: n} wrapper shape some backend versions emit.
func toNumberSafe(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	case map[string]any:
		if dv, ok := n["doubleValue"]; ok {
			return toNumberSafe(dv)
		}
		return 0
	default:
		return 0
	}
}

// parseFecha parses the date strings the backend has been observed to send.
// Bare dates get midnight local time so the calendar day survives bucketing.
func parseFecha(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// defaultCategoria is the placeholder used when a movement arrives without
// an embedded category.
func defaultCategoria() model.Categoria {
	return model.Categoria{
		ID:            -1,
		Activa:        true,
		FechaCreacion: time.Now(),
	}
}

// normalizeCategoria maps a raw category DTO into the canonical record.
// It is a pure, idempotent projection.
func normalizeCategoria(raw *categoriaRaw) model.Categoria {
	if raw == nil {
		return defaultCategoria()
	}

	activa := true
	if raw.Activa != nil {
		activa = *raw.Activa
	}
	fechaCreacion := parseFecha(raw.FechaCreacion)
	if fechaCreacion.IsZero() {
		fechaCreacion = time.Now()
	}

	return model.Categoria{
		ID:            int64(toNumberSafe(raw.ID)),
		Nombre:        strings.TrimSpace(raw.Nombre),
		Descripcion:   strings.TrimSpace(raw.Descripcion),
		Color:         raw.Color,
		Icono:         raw.Icono,
		Activa:        activa,
		EsPredefinida: raw.EsPredefinida,
		FechaCreacion: fechaCreacion,
	}
}

// normalizeMovimiento maps a raw movement DTO into the canonical record,
// resolving field-name drift and coercing the amount to an absolute value.
func normalizeMovimiento(raw movimientoRaw) model.Movimiento {
	fecha := time.Time{}
	for _, candidate := range []string{raw.Fecha, raw.FechaMovimiento, raw.FechaMov, raw.FechaMovimientoISO} {
		if fecha = parseFecha(candidate); !fecha.IsZero() {
			break
		}
	}
	if fecha.IsZero() {
		fecha = time.Now()
	}

	tipo := model.TipoIngreso
	switch {
	case model.TipoMovimiento(strings.ToUpper(strings.TrimSpace(raw.Tipo))).Valid():
		tipo = model.TipoMovimiento(strings.ToUpper(strings.TrimSpace(raw.Tipo)))
	case model.TipoMovimiento(strings.ToUpper(strings.TrimSpace(raw.TipoMovimiento))).Valid():
		tipo = model.TipoMovimiento(strings.ToUpper(strings.TrimSpace(raw.TipoMovimiento)))
	case raw.EsGasto != nil && *raw.EsGasto:
		tipo = model.TipoGasto
	}

	monto := raw.Monto
	if monto == nil {
		monto = raw.Amount
	}

	fechaCreacion := parseFecha(raw.FechaCreacion)
	if fechaCreacion.IsZero() {
		fechaCreacion = time.Now()
	}

	return model.Movimiento{
		ID:              int64(toNumberSafe(raw.ID)),
		Descripcion:     strings.TrimSpace(raw.Descripcion),
		Monto:           math.Abs(toNumberSafe(monto)),
		FechaMovimiento: fecha,
		Tipo:            tipo,
		Categoria:       normalizeCategoria(raw.Categoria),
		FechaCreacion:   fechaCreacion,
	}
}

// normalizeUsuario maps a raw user DTO, tolerating the nombreUsuario vs
// username rename.
func normalizeUsuario(raw usuarioRaw) model.Usuario {
	username := raw.NombreUsuario
	if username == "" {
		username = raw.Username
	}
	nombre := raw.Nombre
	if nombre == "" {
		nombre = username
	}
	activo := true
	if raw.Activo != nil {
		activo = *raw.Activo
	}

	return model.Usuario{
		ID:            int64(toNumberSafe(raw.ID)),
		Username:      username,
		Email:         raw.Email,
		Nombre:        nombre,
		Activo:        activo,
		FechaCreacion: parseFecha(raw.FechaCreacion),
		UltimoAcceso:  parseFecha(raw.UltimoAcceso),
	}
}

// decodeMovimientoList accepts either a bare JSON array or the paginated
// {content: [...]} wrapper older backend versions return.
func decodeMovimientoList(data []byte) ([]model.Movimiento, error) {
	trimmed := strings.TrimSpace(string(data))

	var raws []movimientoRaw
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, &Error{Message: "failed to decode movimientos", Err: err}
		}
	} else {
		var page struct {
			Content []movimientoRaw `json:"content"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, &Error{Message: "failed to decode movimientos", Err: err}
		}
		raws = page.Content
	}

	movimientos := make([]model.Movimiento, 0, len(raws))
	for _, raw := range raws {
		movimientos = append(movimientos, normalizeMovimiento(raw))
	}
	return movimientos, nil
}
