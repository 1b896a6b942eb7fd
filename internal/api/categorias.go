package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gastos-cli/gastos/internal/model"
)

// GetCategorias fetches all categories.
func (c *Client) GetCategorias(ctx context.Context) ([]model.Categoria, error) {
	data, err := c.get(ctx, pathCategorias, nil)
	if err != nil {
		return nil, err
	}

	var raws []categoriaRaw
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &Error{Message: "failed to decode categorias", Err: err}
	}

	categorias := make([]model.Categoria, 0, len(raws))
	for i := range raws {
		categorias = append(categorias, normalizeCategoria(&raws[i]))
	}
	return categorias, nil
}

// GetCategoriaByID fetches a single category.
func (c *Client) GetCategoriaByID(ctx context.Context, id int64) (*model.Categoria, error) {
	if id <= 0 {
		return nil, &Error{Message: "invalid categoria ID"}
	}

	data, err := c.get(ctx, fmt.Sprintf("%s/%d", pathCategorias, id), nil)
	if err != nil {
		return nil, err
	}

	var raw categoriaRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Message: "failed to decode categoria", Err: err}
	}
	categoria := normalizeCategoria(&raw)
	return &categoria, nil
}

// CreateCategoria validates and creates a category. Unlike movements, the
// backend takes category creates as a JSON body.
func (c *Client) CreateCategoria(ctx context.Context, dto model.CategoriaCreateDTO) (*model.Categoria, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	payload := map[string]string{"nombre": strings.TrimSpace(dto.Nombre)}
	if desc := strings.TrimSpace(dto.Descripcion); desc != "" {
		payload["descripcion"] = desc
	}
	if dto.Color != "" {
		payload["color"] = dto.Color
	}
	if dto.Icono != "" {
		payload["icono"] = dto.Icono
	}

	data, err := c.do(ctx, http.MethodPost, pathCategorias, nil, payload)
	if err != nil {
		return nil, err
	}

	var raw categoriaRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Message: "failed to decode categoria", Err: err}
	}
	categoria := normalizeCategoria(&raw)
	return &categoria, nil
}

// UpdateCategoria sends the non-empty DTO fields as query parameters.
func (c *Client) UpdateCategoria(ctx context.Context, dto model.CategoriaUpdateDTO) (*model.Categoria, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	if nombre := strings.TrimSpace(dto.Nombre); nombre != "" {
		query.Set("nombre", nombre)
	}
	if desc := strings.TrimSpace(dto.Descripcion); desc != "" {
		query.Set("descripcion", desc)
	}
	if dto.Color != "" {
		query.Set("color", dto.Color)
	}
	if dto.Icono != "" {
		query.Set("icono", dto.Icono)
	}

	data, err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", pathCategorias, dto.ID), query, nil)
	if err != nil {
		return nil, err
	}

	var raw categoriaRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Message: "failed to decode categoria", Err: err}
	}
	categoria := normalizeCategoria(&raw)
	return &categoria, nil
}

// DeleteCategoria removes a category by ID. Predefined categories are
// rejected by the backend; the UI never offers the action for them.
func (c *Client) DeleteCategoria(ctx context.Context, id int64) error {
	if id <= 0 {
		return &Error{Message: "invalid categoria ID"}
	}
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", pathCategorias, id), nil, nil)
	return err
}
