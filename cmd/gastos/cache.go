package main

import (
	"fmt"
	"sort"

	"github.com/gastos-cli/gastos/internal/cli"
	"github.com/spf13/cobra"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Administra la caché local de lecturas",
	}

	cmd.AddCommand(cacheClearCmd())
	cmd.AddCommand(cacheStatsCmd())

	return cmd
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Vacía la caché",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cache.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("vaciando caché: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Caché vaciada."))
			return nil
		},
	}
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Muestra el contenido de la caché por familia",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.cache.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("leyendo caché: %w", err)
			}

			fmt.Println(cli.FormatTitle("Caché"))
			fmt.Printf("  Entradas: %d (%d marcadas obsoletas)\n", stats.Total, stats.StaleCnt)

			families := make([]string, 0, len(stats.ByFamily))
			for family := range stats.ByFamily {
				families = append(families, family)
			}
			sort.Strings(families)
			for _, family := range families {
				fmt.Printf("  %-14s %d\n", family, stats.ByFamily[family])
			}
			return nil
		},
	}
}
