package main

import (
	"errors"
	"fmt"

	"github.com/gastos-cli/gastos/internal/cli"
	"github.com/gastos-cli/gastos/internal/common"
	"github.com/gastos-cli/gastos/internal/tui"
	"github.com/gastos-cli/gastos/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"flow", "ui"},
		Short:   "Abre el panel interactivo",
		Long: `Abre el panel interactivo en la terminal: resumen financiero, movimientos,
categorías, reportes y configuración, navegables con el teclado.`,
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

			themeName, _ := cmd.Flags().GetString("theme")
			if themeName == "" {
				themeName = viper.GetString("ui.theme")
			}

			err = tui.Run(ctx, tui.Config{
				Service:  a.queries,
				Session:  a.session,
				Settings: a.settings,
				Theme:    themes.GetTheme(themeName),
			})
			if errors.Is(err, common.ErrNotAuthenticated) {
				fmt.Println(cli.FormatError("La sesión expiró. Ejecute 'gastos login' nuevamente."))
				return err
			}
			return err
		},
	}

	cmd.Flags().String("theme", "", "tema de colores (default, catppuccin-mocha)")

	return cmd
}
