package api

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gastos-cli/gastos/internal/model"
	"golang.org/x/sync/errgroup"
)

// estadisticasRaw is the /movimientos/estadisticas payload. Totals may be
// plain numbers, strings, or {doubleValue} wrappers depending on the backend
// version, and the monthly series may be absent entirely.
type estadisticasRaw struct {
	TotalIngresos  any `json:"totalIngresos"`
	TotalGastos    any `json:"totalGastos"`
	Balance        any `json:"balance"`
	Ingresos       any `json:"ingresos"`
	Gastos         any `json:"gastos"`
	ResumenMensual any `json:"resumenMensual"`
}

// GetResumenFinanciero builds the dashboard aggregate from the estadisticas
// endpoint plus a movement count taken from the full list. Both calls run in
// parallel, mirroring the read pattern the dashboard depends on.
func (c *Client) GetResumenFinanciero(ctx context.Context) (*model.ResumenFinanciero, error) {
	var (
		stats       estadisticasRaw
		movimientos []model.Movimiento
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := c.get(gctx, pathMovimientos+"/estadisticas", nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &stats); err != nil {
			return &Error{Message: "failed to decode estadisticas", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		movimientos, err = c.GetMovimientos(gctx, model.FiltroMovimientos{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ingresos := toNumberSafe(stats.TotalIngresos)
	if ingresos == 0 {
		ingresos = toNumberSafe(stats.Ingresos)
	}
	gastos := toNumberSafe(stats.TotalGastos)
	if gastos == 0 {
		gastos = toNumberSafe(stats.Gastos)
	}
	balance := toNumberSafe(stats.Balance)
	if balance == 0 {
		balance = ingresos - gastos
	}

	return &model.ResumenFinanciero{
		TotalIngresos:    ingresos,
		TotalGastos:      gastos,
		Balance:          balance,
		MovimientosCount: len(movimientos),
	}, nil
}

// GetResumenPorCategorias folds the full movement list into per-category
// totals. The breakdown is always computed client-side because the backend
// never reports per-category movement counts or income/expense splits.
func (c *Client) GetResumenPorCategorias(ctx context.Context) ([]model.CategoriaResumen, error) {
	movimientos, err := c.GetMovimientos(ctx, model.FiltroMovimientos{})
	if err != nil {
		return nil, err
	}
	return FoldPorCategorias(movimientos), nil
}

// FoldPorCategorias groups movements by category name, summing income and
// expense separately. Percentages are each category's share of total expense.
func FoldPorCategorias(movimientos []model.Movimiento) []model.CategoriaResumen {
	type bucket struct {
		categoria model.Categoria
		ingresos  float64
		gastos    float64
		count     int
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, m := range movimientos {
		nombre := m.Categoria.Nombre
		if nombre == "" {
			nombre = "Sin categoría"
		}
		b, ok := buckets[nombre]
		if !ok {
			b = &bucket{categoria: m.Categoria}
			if b.categoria.Nombre == "" {
				b.categoria = defaultCategoria()
				b.categoria.Nombre = nombre
			}
			buckets[nombre] = b
			order = append(order, nombre)
		}
		if m.Tipo == model.TipoIngreso {
			b.ingresos += m.Monto
		} else {
			b.gastos += m.Monto
		}
		b.count++
	}

	var totalGastos float64
	for _, b := range buckets {
		totalGastos += b.gastos
	}

	resumen := make([]model.CategoriaResumen, 0, len(order))
	for _, nombre := range order {
		b := buckets[nombre]
		porcentaje := 0.0
		if totalGastos > 0 {
			porcentaje = b.gastos / totalGastos * 100
		}
		resumen = append(resumen, model.CategoriaResumen{
			Categoria:        b.categoria,
			TotalGastos:      b.gastos,
			TotalIngresos:    b.ingresos,
			MovimientosCount: b.count,
			Porcentaje:       porcentaje,
		})
	}
	return resumen
}

// GetResumenMensual returns the 12-slot monthly series for a year. A
// server-provided series is preferred when present; otherwise the series is
// rebuilt client-side by bucketing each movement into its calendar month in
// local time. A zero year means the current year.
func (c *Client) GetResumenMensual(ctx context.Context, year int) ([]model.ResumenMensual, error) {
	data, err := c.get(ctx, pathMovimientos+"/estadisticas", nil)
	if err != nil {
		return nil, err
	}

	var stats estadisticasRaw
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, &Error{Message: "failed to decode estadisticas", Err: err}
	}

	if items, ok := stats.ResumenMensual.([]any); ok && len(items) > 0 {
		resumen := normalizeResumenMensual(items)
		if year > 0 {
			filtered := resumen[:0]
			for _, r := range resumen {
				if r.Ano == year {
					filtered = append(filtered, r)
				}
			}
			resumen = filtered
		}
		return resumen, nil
	}

	movimientos, err := c.GetMovimientos(ctx, model.FiltroMovimientos{})
	if err != nil {
		return nil, err
	}
	return FoldPorMeses(movimientos, year), nil
}

// normalizeResumenMensual tolerates mes/month and ingresos/totalIngresos
// drift in server-provided monthly series.
func normalizeResumenMensual(items []any) []model.ResumenMensual {
	resumen := make([]model.ResumenMensual, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		mes := stringField(obj, "mes")
		if mes == "" {
			mes = stringField(obj, "month")
		}
		ano := int(toNumberSafe(obj["ano"]))
		if ano == 0 {
			ano = time.Now().Year()
		}
		ingresos := firstNumber(obj, "ingresos", "totalIngresos")
		gastos := firstNumber(obj, "gastos", "totalGastos")
		balance := toNumberSafe(obj["balance"])
		if balance == 0 {
			balance = ingresos - gastos
		}

		resumen = append(resumen, model.ResumenMensual{
			Mes:           mes,
			Ano:           ano,
			TotalIngresos: ingresos,
			TotalGastos:   gastos,
			Balance:       balance,
		})
	}
	return resumen
}

// FoldPorMeses buckets movements into a 12-slot series for the target year.
// A zero year means the current year.
func FoldPorMeses(movimientos []model.Movimiento, year int) []model.ResumenMensual {
	if year <= 0 {
		year = time.Now().Year()
	}

	months := make([]model.ResumenMensual, 12)
	for i := range months {
		months[i] = model.ResumenMensual{Mes: strconv.Itoa(i + 1), Ano: year}
	}

	for _, m := range movimientos {
		fecha := m.FechaMovimiento.In(time.Local)
		if fecha.Year() != year {
			continue
		}
		idx := int(fecha.Month()) - 1
		if m.Tipo == model.TipoIngreso {
			months[idx].TotalIngresos += m.Monto
		} else {
			months[idx].TotalGastos += m.Monto
		}
		months[idx].Balance = months[idx].TotalIngresos - months[idx].TotalGastos
	}

	return months
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	if n, ok := obj[key].(float64); ok {
		return strconv.Itoa(int(n))
	}
	return ""
}

func firstNumber(obj map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return toNumberSafe(v)
		}
	}
	return 0
}
