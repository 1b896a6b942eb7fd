package ofx

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/gastos-cli/gastos/internal/common"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/schollz/progressbar/v3"
)

// Creator is the slice of the query layer the importer needs.
type Creator interface {
	CrearMovimiento(ctx context.Context, dto model.MovimientoCreateDTO) (*model.Movimiento, error)
}

// Result summarizes an import run.
type Result struct {
	Created int
	Skipped int
	Failed  int
}

// Ledger remembers which bank transaction IDs were already imported, so
// re-importing the same statement file is safe.
type Ledger struct {
	path string
	seen map[string]bool
}

// LoadLedger reads the import ledger from path, starting empty when the file
// does not exist.
func LoadLedger(path string) *Ledger {
	l := &Ledger{path: path, seen: make(map[string]bool)}
	data, err := os.ReadFile(path)
	if err != nil {
		return l
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		slog.Warn("corrupt import ledger, starting fresh", "path", path)
		return l
	}
	for _, id := range ids {
		l.seen[id] = true
	}
	return l
}

// Has reports whether a transaction ID was imported before.
func (l *Ledger) Has(fitID string) bool {
	return fitID != "" && l.seen[fitID]
}

// Add records a transaction ID as imported.
func (l *Ledger) Add(fitID string) {
	if fitID != "" {
		l.seen[fitID] = true
	}
}

// Save writes the ledger back to disk.
func (l *Ledger) Save() error {
	ids := make([]string, 0, len(l.seen))
	for id := range l.seen {
		ids = append(ids, id)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0600)
}

// Import creates a movement for every candidate not yet in the ledger.
// categoriaID is assigned to every created movement; statement files carry
// no category information. Failures are counted and logged, not fatal, so
// one bad line does not abort a long statement.
func Import(ctx context.Context, creator Creator, candidates []Candidate, categoriaID int64, ledger *Ledger, showProgress bool) (Result, error) {
	var result Result

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(candidates),
			progressbar.OptionSetDescription("Importando movimientos"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, candidate := range candidates {
		if bar != nil {
			_ = bar.Add(1)
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}

		if ledger.Has(candidate.FiTID) {
			result.Skipped++
			continue
		}

		dto := candidate.DTO
		dto.CategoriaID = categoriaID

		if _, err := creator.CrearMovimiento(ctx, dto); err != nil {
			result.Failed++
			common.LogError(err, "failed to import movement", common.Fields{
				"descripcion": dto.Descripcion,
				"monto":       dto.Monto,
			})
			continue
		}

		ledger.Add(candidate.FiTID)
		result.Created++
	}

	if err := ledger.Save(); err != nil {
		common.LogError(err, "failed to save import ledger", common.Fields{"path": ledger.path})
	}

	common.LogDebug("import finished", common.Fields{
		"created": result.Created,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	})
	return result, nil
}
