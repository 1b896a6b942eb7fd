package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gastos-cli/gastos/internal/cli"
	"github.com/gastos-cli/gastos/internal/format"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/ofx"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func movimientosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "movimientos",
		Aliases: []string{"mov"},
		Short:   "Administra los movimientos",
	}

	cmd.AddCommand(movimientosListCmd())
	cmd.AddCommand(movimientosShowCmd())
	cmd.AddCommand(movimientosAddCmd())
	cmd.AddCommand(movimientosEditCmd())
	cmd.AddCommand(movimientosDeleteCmd())
	cmd.AddCommand(movimientosRecientesCmd())
	cmd.AddCommand(movimientosImportCmd())

	return cmd
}

func movimientosListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista los movimientos, con filtros opcionales",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			filtro, err := filtroFromFlags(cmd, a.settings.Get().DateFormat)
			if err != nil {
				return err
			}

			movimientos, err := a.queries.Movimientos(ctx, filtro)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			printMovimientos(movimientos, a.settings.Get())
			return nil
		},
	}

	cmd.Flags().Int64("categoria", 0, "filtrar por ID de categoría")
	cmd.Flags().String("tipo", "", "filtrar por tipo (GASTO o INGRESO)")
	cmd.Flags().String("desde", "", "fecha inicial")
	cmd.Flags().String("hasta", "", "fecha final")
	cmd.Flags().String("buscar", "", "buscar en la descripción")

	return cmd
}

func movimientosShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Muestra un movimiento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("ID inválido: %s", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			mov, err := a.queries.Movimiento(ctx, id)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			prefs := a.settings.Get()
			amount := cli.FormatAmount(format.Money(mov.Monto, prefs.Currency), mov.Tipo == model.TipoIngreso)
			detail := strings.Join([]string{
				fmt.Sprintf("Descripción: %s", mov.Descripcion),
				fmt.Sprintf("Monto:       %s", amount),
				fmt.Sprintf("Tipo:        %s", mov.Tipo),
				fmt.Sprintf("Categoría:   %s", mov.Categoria.Nombre),
				fmt.Sprintf("Fecha:       %s", format.Date(mov.FechaMovimiento, prefs.DateFormat)),
			}, "\n")
			fmt.Println(cli.RenderBox(fmt.Sprintf("Movimiento #%d", mov.ID), detail))
			return nil
		},
	}
}

func movimientosAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Registra un movimiento nuevo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			prefs := a.settings.Get()
			dto := model.MovimientoCreateDTO{Tipo: model.TipoGasto}

			dto.Descripcion, _ = cmd.Flags().GetString("descripcion")
			dto.Monto, _ = cmd.Flags().GetFloat64("monto")
			dto.CategoriaID, _ = cmd.Flags().GetInt64("categoria")
			if ingreso, _ := cmd.Flags().GetBool("ingreso"); ingreso {
				dto.Tipo = model.TipoIngreso
			}

			if fecha, _ := cmd.Flags().GetString("fecha"); fecha != "" {
				dto.FechaMovimiento, err = format.ParseDate(fecha, prefs.DateFormat)
				if err != nil {
					return fmt.Errorf("fecha inválida, use el formato %s", prefs.DateFormat)
				}
			} else {
				dto.FechaMovimiento = time.Now()
			}

			// Anything missing gets asked interactively.
			prompter := cli.NewPrompter(os.Stdin, os.Stdout)
			if strings.TrimSpace(dto.Descripcion) == "" {
				dto.Descripcion, err = prompter.Line(ctx, "Descripción", "")
				if err != nil {
					return err
				}
			}
			if dto.Monto <= 0 {
				dto.Monto, err = prompter.Amount(ctx, "Monto")
				if err != nil {
					return err
				}
			}
			if dto.CategoriaID == 0 {
				dto.CategoriaID, err = pickCategoria(cmd, a)
				if err != nil {
					return err
				}
			}

			if err := dto.Validate(); err != nil {
				return err
			}

			mov, err := a.queries.CrearMovimiento(ctx, dto)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Movimiento #%d creado: %s por %s",
				mov.ID, mov.Descripcion, format.Money(mov.Monto, prefs.Currency))))
			return nil
		},
	}

	cmd.Flags().String("descripcion", "", "descripción del movimiento")
	cmd.Flags().Float64("monto", 0, "monto")
	cmd.Flags().String("fecha", "", "fecha del movimiento (por defecto hoy)")
	cmd.Flags().Int64("categoria", 0, "ID de categoría")
	cmd.Flags().Bool("ingreso", false, "registrar como ingreso en lugar de gasto")

	return cmd
}

func movimientosEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Modifica un movimiento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("ID inválido: %s", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			current, err := a.queries.Movimiento(ctx, id)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			dto := model.MovimientoUpdateDTO{
				ID:          id,
				Descripcion: current.Descripcion,
				Monto:       current.Monto,
				CategoriaID: current.Categoria.ID,
			}

			if v, _ := cmd.Flags().GetString("descripcion"); v != "" {
				dto.Descripcion = v
			}
			if v, _ := cmd.Flags().GetFloat64("monto"); v > 0 {
				dto.Monto = v
			}
			if v, _ := cmd.Flags().GetInt64("categoria"); v > 0 {
				dto.CategoriaID = v
			}

			mov, err := a.queries.ActualizarMovimiento(ctx, dto)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Movimiento #%d actualizado: %s", mov.ID, mov.Descripcion)))
			return nil
		},
	}

	cmd.Flags().String("descripcion", "", "nueva descripción")
	cmd.Flags().Float64("monto", 0, "nuevo monto")
	cmd.Flags().Int64("categoria", 0, "nueva categoría")

	return cmd
}

func movimientosDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Elimina un movimiento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("ID inválido: %s", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			if force, _ := cmd.Flags().GetBool("force"); !force {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				ok, err := prompter.Confirm(ctx, fmt.Sprintf("¿Eliminar el movimiento #%d?", id), false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Operación cancelada."))
					return nil
				}
			}

			if err := a.queries.EliminarMovimiento(ctx, id); err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Movimiento #%d eliminado.", id)))
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "no pedir confirmación")

	return cmd
}

func movimientosRecientesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recientes",
		Short: "Muestra los últimos movimientos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			movimientos, err := a.queries.UltimosMovimientos(ctx, limit)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			printMovimientos(movimientos, a.settings.Get())
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "cantidad de movimientos")

	return cmd
}

func movimientosImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <archivo.ofx>",
		Short: "Importa movimientos desde un archivo OFX o QFX",
		Long: `Importa movimientos desde un extracto bancario OFX/QFX.

Cada transacción ya importada se recuerda por su FITID, así que repetir el
import del mismo archivo no duplica movimientos.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abriendo %s: %w", args[0], err)
			}
			defer func() { _ = file.Close() }()

			parser := ofx.NewParser()
			candidates, err := parser.ParseFile(ctx, file)
			if err != nil {
				return fmt.Errorf("leyendo OFX: %w", err)
			}
			if len(candidates) == 0 {
				fmt.Println(cli.FormatWarning("El archivo no contiene transacciones."))
				return nil
			}

			categoriaID, _ := cmd.Flags().GetInt64("categoria")
			if categoriaID == 0 {
				categoriaID, err = pickCategoria(cmd, a)
				if err != nil {
					return err
				}
			}

			ledger := ofx.LoadLedger(ledgerPath())

			handler := cli.NewInterruptHandler(os.Stdout)
			ctx = handler.HandleInterrupts(ctx, true)

			result, err := ofx.Import(ctx, a.queries, candidates, categoriaID, ledger, true)
			if saveErr := ledger.Save(); saveErr != nil {
				fmt.Println(cli.FormatWarning("No se pudo guardar el registro de importados: " + saveErr.Error()))
			}
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Importación completa: %d creados, %d ya existentes, %d con error.",
				result.Created, result.Skipped, result.Failed)))
			return nil
		},
	}

	cmd.Flags().Int64("categoria", 0, "categoría asignada a los movimientos importados")

	return cmd
}

// pickCategoria lists the categories and asks for one by ID.
func pickCategoria(cmd *cobra.Command, a *app) (int64, error) {
	ctx := cmd.Context()

	categorias, err := a.queries.Categorias(ctx)
	if err != nil {
		return 0, err
	}
	if len(categorias) == 0 {
		return 0, fmt.Errorf("no hay categorías disponibles")
	}

	fmt.Println(cli.FormatInfo("Categorías disponibles:"))
	for _, cat := range categorias {
		fmt.Printf("  %3d  %s\n", cat.ID, cat.Nombre)
	}

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	raw, err := prompter.Line(ctx, "ID de categoría", "")
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ID de categoría inválido: %s", raw)
	}
	for _, cat := range categorias {
		if cat.ID == id {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no existe la categoría %d", id)
}

func filtroFromFlags(cmd *cobra.Command, dateFormat string) (model.FiltroMovimientos, error) {
	var filtro model.FiltroMovimientos

	filtro.CategoriaID, _ = cmd.Flags().GetInt64("categoria")
	filtro.Descripcion, _ = cmd.Flags().GetString("buscar")

	if tipo, _ := cmd.Flags().GetString("tipo"); tipo != "" {
		switch strings.ToUpper(tipo) {
		case string(model.TipoGasto):
			filtro.Tipo = model.TipoGasto
		case string(model.TipoIngreso):
			filtro.Tipo = model.TipoIngreso
		default:
			return filtro, fmt.Errorf("tipo inválido: %s (use GASTO o INGRESO)", tipo)
		}
	}

	if desde, _ := cmd.Flags().GetString("desde"); desde != "" {
		t, err := format.ParseDate(desde, dateFormat)
		if err != nil {
			return filtro, fmt.Errorf("fecha inválida en --desde, use el formato %s", dateFormat)
		}
		filtro.FechaDesde = t
	}
	if hasta, _ := cmd.Flags().GetString("hasta"); hasta != "" {
		t, err := format.ParseDate(hasta, dateFormat)
		if err != nil {
			return filtro, fmt.Errorf("fecha inválida en --hasta, use el formato %s", dateFormat)
		}
		filtro.FechaHasta = t
	}

	return filtro, nil
}

func printMovimientos(movimientos []model.Movimiento, prefs settings.Settings) {
	if len(movimientos) == 0 {
		fmt.Println(cli.FormatInfo("No hay movimientos para mostrar."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFecha\tDescripción\tCategoría\tMonto")
	for _, mov := range movimientos {
		amount := cli.FormatAmount(format.Money(mov.Monto, prefs.Currency), mov.Tipo == model.TipoIngreso)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			mov.ID,
			format.Date(mov.FechaMovimiento, prefs.DateFormat),
			clip(mov.Descripcion, 40),
			clip(mov.Categoria.Nombre, 20),
			amount,
		)
	}
	_ = w.Flush()
}

func clip(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// ledgerPath returns where imported FITIDs are remembered.
func ledgerPath() string {
	if p := viper.GetString("import.ledger_path"); p != "" {
		return expandPath(p)
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "gastos-import-ledger.json"
	}
	return filepath.Join(dir, ".local", "share", "gastos", "import-ledger.json")
}
