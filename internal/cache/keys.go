package cache

import (
	"strings"
	"time"
)

// Resource families. Invalidation flags whole families, so a mutation can
// sweep every parameterized variant of a list without knowing its keys.
const (
	FamilyMovimientos = "movimientos"
	FamilyCategorias  = "categorias"
	FamilyResumen     = "resumen"
	FamilyReportes    = "reportes"
)

// Staleness windows, mirroring how often each resource actually changes.
// Categories change rarely; dashboard numbers churn.
const (
	WindowCategorias  = 10 * time.Minute
	WindowMovimientos = 5 * time.Minute
	WindowRecientes   = 2 * time.Minute
	WindowResumen     = 2 * time.Minute
	WindowReportes    = 5 * time.Minute
)

// Invalidation sets. Each is a superset of the resources a mutation can
// affect: movements embed category data, and every report is derived from
// the movement list.
var (
	// MovimientoMutation covers create/update/delete of a movement.
	MovimientoMutation = []string{FamilyMovimientos, FamilyResumen, FamilyReportes}
	// CategoriaMutation covers create/update/delete of a category.
	CategoriaMutation = []string{FamilyCategorias, FamilyMovimientos, FamilyReportes}
)

// Key builds a composite cache key from a family and its parameters.
func Key(family string, params ...string) string {
	if len(params) == 0 {
		return family
	}
	return family + "|" + strings.Join(params, "|")
}
