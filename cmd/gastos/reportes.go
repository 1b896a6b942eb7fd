package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gastos-cli/gastos/internal/cli"
	"github.com/gastos-cli/gastos/internal/format"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reportes",
		Short: "Consulta reportes financieros",
	}

	cmd.AddCommand(reportesResumenCmd())
	cmd.AddCommand(reportesCategoriasCmd())
	cmd.AddCommand(reportesMensualCmd())
	cmd.AddCommand(reportesExportCmd())

	return cmd
}

func reportesResumenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resumen",
		Short: "Totales de ingresos, gastos y balance",
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

			resumen, err := a.queries.ResumenFinanciero(ctx)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			currency := a.settings.Get().Currency
			body := strings.Join([]string{
				fmt.Sprintf("Ingresos:    %s", cli.FormatAmount(format.Money(resumen.TotalIngresos, currency), true)),
				fmt.Sprintf("Gastos:      %s", cli.FormatAmount(format.Money(resumen.TotalGastos, currency), false)),
				fmt.Sprintf("Balance:     %s", format.Money(resumen.Balance, currency)),
				fmt.Sprintf("Movimientos: %d", resumen.MovimientosCount),
			}, "\n")
			fmt.Println(cli.RenderBox("Resumen financiero", body))
			return nil
		},
	}
}

func reportesCategoriasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorias",
		Short: "Gastos agrupados por categoría",
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

			resumen, err := a.queries.ResumenPorCategorias(ctx)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}
			if len(resumen) == 0 {
				fmt.Println(cli.FormatInfo("Sin gastos registrados."))
				return nil
			}

			printResumenCategorias(os.Stdout, resumen, a.settings.Get().Currency)
			return nil
		},
	}
}

func printResumenCategorias(out io.Writer, resumen []model.CategoriaResumen, currency string) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Categoría\tGastos\t%\tMovs")
	for _, cat := range resumen {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			clip(cat.Categoria.Nombre, 24),
			format.Money(cat.TotalGastos, currency),
			format.Percentage(cat.Porcentaje),
			cat.MovimientosCount,
		)
	}
	_ = w.Flush()
}

func reportesMensualCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mensual",
		Short: "Serie mensual de un año",
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

			year, _ := cmd.Flags().GetInt("ano")
			if year == 0 {
				year = time.Now().Year()
			}

			serie, err := a.queries.ResumenMensual(ctx, year)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}
			if len(serie) == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Sin movimientos en %d.", year)))
				return nil
			}

			currency := a.settings.Get().Currency
			fmt.Println(cli.FormatTitle(fmt.Sprintf("Resumen mensual %d", year)))
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Mes\tIngresos\tGastos\tBalance")
			for _, mes := range serie {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					mes.Mes,
					format.Money(mes.TotalIngresos, currency),
					format.Money(mes.TotalGastos, currency),
					format.Money(mes.Balance, currency),
				)
			}
			_ = w.Flush()
			return nil
		},
	}

	cmd.Flags().Int("ano", 0, "año a consultar (por defecto el actual)")

	return cmd
}

func reportesExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta el reporte a Google Sheets",
		Long: `Exporta el resumen financiero, el desglose por categorías y el detalle de
movimientos del período a una hoja de Google Sheets.

Las credenciales se toman de la configuración o de las variables de entorno
GOOGLE_SHEETS_CLIENT_ID, GOOGLE_SHEETS_CLIENT_SECRET y
GOOGLE_SHEETS_REFRESH_TOKEN (o GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH).`,
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

			hasta := time.Now()
			desde := hasta.AddDate(0, -1, 0)
			if v, _ := cmd.Flags().GetString("desde"); v != "" {
				desde, err = format.ParseDate(v, prefs.DateFormat)
				if err != nil {
					return fmt.Errorf("fecha inválida en --desde, use el formato %s", prefs.DateFormat)
				}
			}
			if v, _ := cmd.Flags().GetString("hasta"); v != "" {
				hasta, err = format.ParseDate(v, prefs.DateFormat)
				if err != nil {
					return fmt.Errorf("fecha inválida en --hasta, use el formato %s", prefs.DateFormat)
				}
			}

			resumen, err := a.queries.ResumenFinanciero(ctx)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}
			porCategorias, err := a.queries.ResumenPorCategorias(ctx)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}
			movimientos, err := a.queries.Movimientos(ctx, model.FiltroMovimientos{
				FechaDesde: desde,
				FechaHasta: hasta,
			})
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			config := sheetsConfig()
			writer, err := sheets.NewWriter(ctx, config, slog.Default())
			if err != nil {
				return fmt.Errorf("configurando Google Sheets: %w", err)
			}

			fmt.Println(cli.FormatInfo("Exportando a Google Sheets..."))
			err = writer.Write(ctx, sheets.Report{
				Resumen:       resumen,
				PorCategorias: porCategorias,
				Movimientos:   movimientos,
				Desde:         desde,
				Hasta:         hasta,
			})
			if err != nil {
				return fmt.Errorf("exportando reporte: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Reporte exportado."))
			return nil
		},
	}

	cmd.Flags().String("desde", "", "inicio del período (por defecto un mes atrás)")
	cmd.Flags().String("hasta", "", "fin del período (por defecto hoy)")

	return cmd
}

// sheetsConfig merges file config over environment variables.
func sheetsConfig() sheets.Config {
	config := sheets.DefaultConfig()
	_ = config.LoadFromEnv()

	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		config.SpreadsheetName = v
	}
	return config
}
