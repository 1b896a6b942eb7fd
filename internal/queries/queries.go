// Package queries is the data-access layer the UI talks to: reads go through
// the cache with per-family staleness windows, mutations hit the API directly
// and sweep the affected cache families on success.
package queries

import (
	"context"
	"strconv"

	"github.com/gastos-cli/gastos/internal/api"
	"github.com/gastos-cli/gastos/internal/cache"
	"github.com/gastos-cli/gastos/internal/model"
)

// API is the slice of the HTTP client the query layer uses.
type API interface {
	GetMovimientos(ctx context.Context, filtro model.FiltroMovimientos) ([]model.Movimiento, error)
	GetMovimientoByID(ctx context.Context, id int64) (*model.Movimiento, error)
	CreateMovimiento(ctx context.Context, dto model.MovimientoCreateDTO) (*model.Movimiento, error)
	UpdateMovimiento(ctx context.Context, dto model.MovimientoUpdateDTO) (*model.Movimiento, error)
	DeleteMovimiento(ctx context.Context, id int64) error
	GetUltimosMovimientos(ctx context.Context, limit int) ([]model.Movimiento, error)

	GetCategorias(ctx context.Context) ([]model.Categoria, error)
	GetCategoriaByID(ctx context.Context, id int64) (*model.Categoria, error)
	CreateCategoria(ctx context.Context, dto model.CategoriaCreateDTO) (*model.Categoria, error)
	UpdateCategoria(ctx context.Context, dto model.CategoriaUpdateDTO) (*model.Categoria, error)
	DeleteCategoria(ctx context.Context, id int64) error

	GetResumenFinanciero(ctx context.Context) (*model.ResumenFinanciero, error)
	GetResumenPorCategorias(ctx context.Context) ([]model.CategoriaResumen, error)
	GetResumenMensual(ctx context.Context, year int) ([]model.ResumenMensual, error)
}

// Service coordinates the API client and the cache.
type Service struct {
	api         API
	cache       *cache.Cache
	onAuthError func()
}

// New creates a Service. onAuthError runs once per observed 401/403 so the
// session holder can drop a session the backend no longer honors; nil is
// allowed.
func New(apiClient API, c *cache.Cache, onAuthError func()) *Service {
	return &Service{api: apiClient, cache: c, onAuthError: onAuthError}
}

// observe funnels every error through the auth hook before returning it.
func (s *Service) observe(err error) error {
	if err != nil && s.onAuthError != nil && api.IsAuthError(err) {
		s.onAuthError()
	}
	return err
}

// Movimientos returns the movement list for filtro, cached per filter.
func (s *Service) Movimientos(ctx context.Context, filtro model.FiltroMovimientos) ([]model.Movimiento, error) {
	key := cache.Key(cache.FamilyMovimientos, filterKey(filtro))
	out, err := cache.Lookup(ctx, s.cache, key, cache.FamilyMovimientos, cache.WindowMovimientos,
		func(ctx context.Context) ([]model.Movimiento, error) {
			return s.api.GetMovimientos(ctx, filtro)
		})
	return out, s.observe(err)
}

// Movimiento returns a single movement by ID.
func (s *Service) Movimiento(ctx context.Context, id int64) (*model.Movimiento, error) {
	key := cache.Key(cache.FamilyMovimientos, "id", strconv.FormatInt(id, 10))
	out, err := cache.Lookup(ctx, s.cache, key, cache.FamilyMovimientos, cache.WindowMovimientos,
		func(ctx context.Context) (*model.Movimiento, error) {
			return s.api.GetMovimientoByID(ctx, id)
		})
	return out, s.observe(err)
}

// UltimosMovimientos returns the most recent movements. The window is shorter
// than the general movement window because the dashboard leans on it.
func (s *Service) UltimosMovimientos(ctx context.Context, limit int) ([]model.Movimiento, error) {
	key := cache.Key(cache.FamilyMovimientos, "recientes", strconv.Itoa(limit))
	out, err := cache.Lookup(ctx, s.cache, key, cache.FamilyMovimientos, cache.WindowRecientes,
		func(ctx context.Context) ([]model.Movimiento, error) {
			return s.api.GetUltimosMovimientos(ctx, limit)
		})
	return out, s.observe(err)
}

// Categorias returns the category list.
func (s *Service) Categorias(ctx context.Context) ([]model.Categoria, error) {
	key := cache.Key(cache.FamilyCategorias, "all")
	out, err := cache.Lookup(ctx, s.cache, key, cache.FamilyCategorias, cache.WindowCategorias,
		func(ctx context.Context) ([]model.Categoria, error) {
			return s.api.GetCategorias(ctx)
		})
	return out, s.observe(err)
}

// Categoria returns a single category by ID.
func (s *Service) Categoria(ctx context.Context, id int64) (*model.Categoria, error) {
	key := cache.Key(cache.FamilyCategorias, "id", strconv.FormatInt(id, 10))
	out, err := cache.Lookup(ctx, s.cache, key, cache.FamilyCategorias, cache.WindowCategorias,
		func(ctx context.Context) (*model.Categoria, error) {
			return s.api.GetCategoriaByID(ctx, id)
		})
	return out, s.observe(err)
}

// ResumenFinanciero returns the dashboard totals.
func (s *Service) ResumenFinanciero(ctx context.Context) (*model.ResumenFinanciero, error) {
	key := cache.Key(cache.FamilyResumen, "financiero")
	out, err := cache.Lookup(ctx, s.cache, key, cache.FamilyResumen, cache.WindowResumen,
		func(ctx context.Context) (*model.ResumenFinanciero, error) {
			return s.api.GetResumenFinanciero(ctx)
		})
	return out, s.observe(err)
}

// ResumenPorCategorias returns the expense breakdown by category.
func (s *Service) ResumenPorCategorias(ctx context.Context) ([]model.CategoriaResumen, error) {
	key := cache.Key(cache.FamilyReportes, "categorias")
	out, err := cache.Lookup(ctx, s.cache, key, cache.FamilyReportes, cache.WindowReportes,
		func(ctx context.Context) ([]model.CategoriaResumen, error) {
			return s.api.GetResumenPorCategorias(ctx)
		})
	return out, s.observe(err)
}

// ResumenMensual returns the twelve-month income/expense series for year.
func (s *Service) ResumenMensual(ctx context.Context, year int) ([]model.ResumenMensual, error) {
	key := cache.Key(cache.FamilyReportes, "mensual", strconv.Itoa(year))
	out, err := cache.Lookup(ctx, s.cache, key, cache.FamilyReportes, cache.WindowReportes,
		func(ctx context.Context) ([]model.ResumenMensual, error) {
			return s.api.GetResumenMensual(ctx, year)
		})
	return out, s.observe(err)
}

// CrearMovimiento creates a movement and sweeps every family a movement
// touches. The cache is only invalidated after the backend confirms.
func (s *Service) CrearMovimiento(ctx context.Context, dto model.MovimientoCreateDTO) (*model.Movimiento, error) {
	created, err := s.api.CreateMovimiento(ctx, dto)
	if err != nil {
		return nil, s.observe(err)
	}
	s.cache.Invalidate(ctx, cache.MovimientoMutation...)
	return created, nil
}

// ActualizarMovimiento updates a movement.
func (s *Service) ActualizarMovimiento(ctx context.Context, dto model.MovimientoUpdateDTO) (*model.Movimiento, error) {
	updated, err := s.api.UpdateMovimiento(ctx, dto)
	if err != nil {
		return nil, s.observe(err)
	}
	s.cache.Invalidate(ctx, cache.MovimientoMutation...)
	return updated, nil
}

// EliminarMovimiento deletes a movement.
func (s *Service) EliminarMovimiento(ctx context.Context, id int64) error {
	if err := s.api.DeleteMovimiento(ctx, id); err != nil {
		return s.observe(err)
	}
	s.cache.Invalidate(ctx, cache.MovimientoMutation...)
	return nil
}

// CrearCategoria creates a category. The sweep includes movements because
// lists render the category name inline.
func (s *Service) CrearCategoria(ctx context.Context, dto model.CategoriaCreateDTO) (*model.Categoria, error) {
	created, err := s.api.CreateCategoria(ctx, dto)
	if err != nil {
		return nil, s.observe(err)
	}
	s.cache.Invalidate(ctx, cache.CategoriaMutation...)
	return created, nil
}

// ActualizarCategoria updates a category.
func (s *Service) ActualizarCategoria(ctx context.Context, dto model.CategoriaUpdateDTO) (*model.Categoria, error) {
	updated, err := s.api.UpdateCategoria(ctx, dto)
	if err != nil {
		return nil, s.observe(err)
	}
	s.cache.Invalidate(ctx, cache.CategoriaMutation...)
	return updated, nil
}

// EliminarCategoria deletes a category. Predefined categories are rejected
// locally; the backend enforces the same rule.
func (s *Service) EliminarCategoria(ctx context.Context, categoria model.Categoria) error {
	if categoria.EsPredefinida {
		return model.ErrValidation
	}
	if err := s.api.DeleteCategoria(ctx, categoria.ID); err != nil {
		return s.observe(err)
	}
	s.cache.Invalidate(ctx, cache.CategoriaMutation...)
	return nil
}

// filterKey builds a stable cache key fragment from a movement filter.
func filterKey(f model.FiltroMovimientos) string {
	if f.IsZero() {
		return "all"
	}
	parts := []string{
		"cat=" + strconv.FormatInt(f.CategoriaID, 10),
		"tipo=" + string(f.Tipo),
		"desde=",
		"hasta=",
		"desc=" + f.Descripcion,
	}
	if !f.FechaDesde.IsZero() {
		parts[2] = "desde=" + f.FechaDesde.Format("2006-01-02")
	}
	if !f.FechaHasta.IsZero() {
		parts[3] = "hasta=" + f.FechaHasta.Format("2006-01-02")
	}
	return cache.Key("f", parts...)
}
