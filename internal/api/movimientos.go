package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gastos-cli/gastos/internal/model"
)

// GetMovimientos fetches the movement list, optionally narrowed by filter.
func (c *Client) GetMovimientos(ctx context.Context, filtro model.FiltroMovimientos) ([]model.Movimiento, error) {
	query := url.Values{}
	if filtro.CategoriaID > 0 {
		query.Set("categoriaId", strconv.FormatInt(filtro.CategoriaID, 10))
	}
	if filtro.Tipo != "" {
		query.Set("tipo", string(filtro.Tipo))
	}
	if !filtro.FechaDesde.IsZero() {
		query.Set("fechaDesde", filtro.FechaDesde.Format("2006-01-02"))
	}
	if !filtro.FechaHasta.IsZero() {
		query.Set("fechaHasta", filtro.FechaHasta.Format("2006-01-02"))
	}
	if desc := strings.TrimSpace(filtro.Descripcion); desc != "" {
		query.Set("descripcion", desc)
	}

	data, err := c.get(ctx, pathMovimientos, query)
	if err != nil {
		return nil, err
	}
	return decodeMovimientoList(data)
}

// GetMovimientoByID fetches a single movement.
func (c *Client) GetMovimientoByID(ctx context.Context, id int64) (*model.Movimiento, error) {
	if id <= 0 {
		return nil, &Error{Message: "invalid movimiento ID"}
	}

	data, err := c.get(ctx, fmt.Sprintf("%s/%d", pathMovimientos, id), nil)
	if err != nil {
		return nil, err
	}

	var raw movimientoRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Message: "failed to decode movimiento", Err: err}
	}
	movimiento := normalizeMovimiento(raw)
	return &movimiento, nil
}

// CreateMovimiento validates the DTO locally and posts it to the type-specific
// endpoint. The backend takes the fields as query parameters.
func (c *Client) CreateMovimiento(ctx context.Context, dto model.MovimientoCreateDTO) (*model.Movimiento, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	endpoint := pathMovimientos + "/gastos"
	if dto.Tipo == model.TipoIngreso {
		endpoint = pathMovimientos + "/ingresos"
	}

	query := url.Values{}
	query.Set("descripcion", strings.TrimSpace(dto.Descripcion))
	query.Set("monto", strconv.FormatFloat(dto.Monto, 'f', 2, 64))
	query.Set("categoriaId", strconv.FormatInt(dto.CategoriaID, 10))
	if !dto.FechaMovimiento.IsZero() {
		query.Set("fecha", dto.FechaMovimiento.Format("2006-01-02"))
	}

	data, err := c.do(ctx, http.MethodPost, endpoint, query, nil)
	if err != nil {
		return nil, err
	}

	var raw movimientoRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Message: "failed to decode movimiento", Err: err}
	}
	movimiento := normalizeMovimiento(raw)
	return &movimiento, nil
}

// UpdateMovimiento sends the non-zero DTO fields as query parameters.
func (c *Client) UpdateMovimiento(ctx context.Context, dto model.MovimientoUpdateDTO) (*model.Movimiento, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	if desc := strings.TrimSpace(dto.Descripcion); desc != "" {
		query.Set("descripcion", desc)
	}
	if dto.Monto > 0 {
		query.Set("monto", strconv.FormatFloat(dto.Monto, 'f', 2, 64))
	}
	if dto.CategoriaID > 0 {
		query.Set("categoriaId", strconv.FormatInt(dto.CategoriaID, 10))
	}

	data, err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", pathMovimientos, dto.ID), query, nil)
	if err != nil {
		return nil, err
	}

	var raw movimientoRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Message: "failed to decode movimiento", Err: err}
	}
	movimiento := normalizeMovimiento(raw)
	return &movimiento, nil
}

// DeleteMovimiento removes a movement by ID.
func (c *Client) DeleteMovimiento(ctx context.Context, id int64) error {
	if id <= 0 {
		return &Error{Message: "invalid movimiento ID"}
	}
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", pathMovimientos, id), nil, nil)
	return err
}

// GetUltimosMovimientos fetches the most recent movements, newest first.
func (c *Client) GetUltimosMovimientos(ctx context.Context, limit int) ([]model.Movimiento, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 100 {
		return nil, &Error{Message: "limit must be between 1 and 100"}
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	data, err := c.get(ctx, pathMovimientos+"/recientes", query)
	if err != nil {
		return nil, err
	}
	return decodeMovimientoList(data)
}
