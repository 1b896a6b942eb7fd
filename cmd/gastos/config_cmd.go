package main

import (
	"fmt"
	"strings"

	"github.com/gastos-cli/gastos/internal/cli"
	"github.com/gastos-cli/gastos/internal/format"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Preferencias de la aplicación",
	}

	cmd.AddCommand(configListCmd())
	cmd.AddCommand(configGetCmd())
	cmd.AddCommand(configSetCmd())

	return cmd
}

func configListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Muestra las preferencias actuales",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			prefs := a.settings.Get()
			fmt.Println(cli.FormatTitle("Preferencias"))
			fmt.Printf("  currency    %s\n", prefs.Currency)
			fmt.Printf("  language    %s\n", prefs.Language)
			fmt.Printf("  dateFormat  %s\n", prefs.DateFormat)
			return nil
		},
	}
}

func configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <clave>",
		Short: "Muestra una preferencia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			prefs := a.settings.Get()
			switch args[0] {
			case "currency":
				fmt.Println(prefs.Currency)
			case "language":
				fmt.Println(prefs.Language)
			case "dateFormat":
				fmt.Println(prefs.DateFormat)
			default:
				return fmt.Errorf("clave desconocida: %s (use currency, language o dateFormat)", args[0])
			}
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <clave> <valor>",
		Short: "Cambia una preferencia",
		Long: fmt.Sprintf(`Cambia una preferencia y la persiste.

Claves admitidas:
  currency    %s
  language    %s
  dateFormat  %s`,
			strings.Join(currencyCodes(), ", "),
			strings.Join(settings.Languages, ", "),
			strings.Join(format.DateFormats, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.settings.Set(args[0], args[1]); err != nil {
				fmt.Println(cli.FormatError(err.Error()))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s = %s", args[0], args[1])))
			return nil
		},
	}
}

func currencyCodes() []string {
	codes := make([]string, len(format.Currencies))
	for i, cur := range format.Currencies {
		codes[i] = cur.Code
	}
	return codes
}
