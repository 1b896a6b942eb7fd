package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/gastos-cli/gastos/internal/cli"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/spf13/cobra"
)

func categoriasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categorias",
		Aliases: []string{"cat"},
		Short:   "Administra las categorías",
	}

	cmd.AddCommand(categoriasListCmd())
	cmd.AddCommand(categoriasAddCmd())
	cmd.AddCommand(categoriasEditCmd())
	cmd.AddCommand(categoriasDeleteCmd())

	return cmd
}

func categoriasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista las categorías",
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

			categorias, err := a.queries.Categorias(ctx)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			if len(categorias) == 0 {
				fmt.Println(cli.FormatInfo("No hay categorías."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\t\tNombre\tDescripción\tTipo")
			for _, cat := range categorias {
				kind := "propia"
				if cat.EsPredefinida {
					kind = "predefinida"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					cat.ID, cat.Icono, clip(cat.Nombre, 24), clip(cat.Descripcion, 40), kind)
			}
			_ = w.Flush()
			return nil
		},
	}
}

func categoriasAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <nombre>",
		Short: "Crea una categoría",
		Args:  cobra.ExactArgs(1),
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

			dto := model.CategoriaCreateDTO{Nombre: args[0]}
			dto.Descripcion, _ = cmd.Flags().GetString("descripcion")
			dto.Color, _ = cmd.Flags().GetString("color")
			dto.Icono, _ = cmd.Flags().GetString("icono")

			if err := dto.Validate(); err != nil {
				return err
			}

			cat, err := a.queries.CrearCategoria(ctx, dto)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Categoría #%d creada: %s", cat.ID, cat.Nombre)))
			return nil
		},
	}

	cmd.Flags().String("descripcion", "", "descripción de la categoría")
	cmd.Flags().String("color", "", "color en hexadecimal, por ejemplo #36c48f")
	cmd.Flags().String("icono", "", "emoji de la categoría")

	return cmd
}

func categoriasEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Modifica una categoría",
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

			current, err := a.queries.Categoria(ctx, id)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			dto := model.CategoriaUpdateDTO{
				ID:          id,
				Nombre:      current.Nombre,
				Descripcion: current.Descripcion,
				Color:       current.Color,
				Icono:       current.Icono,
			}
			if v, _ := cmd.Flags().GetString("nombre"); v != "" {
				dto.Nombre = v
			}
			if v, _ := cmd.Flags().GetString("descripcion"); v != "" {
				dto.Descripcion = v
			}
			if v, _ := cmd.Flags().GetString("color"); v != "" {
				dto.Color = v
			}
			if v, _ := cmd.Flags().GetString("icono"); v != "" {
				dto.Icono = v
			}

			cat, err := a.queries.ActualizarCategoria(ctx, dto)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Categoría #%d actualizada: %s", cat.ID, cat.Nombre)))
			return nil
		},
	}

	cmd.Flags().String("nombre", "", "nuevo nombre")
	cmd.Flags().String("descripcion", "", "nueva descripción")
	cmd.Flags().String("color", "", "nuevo color")
	cmd.Flags().String("icono", "", "nuevo icono")

	return cmd
}

func categoriasDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Elimina una categoría propia",
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

			categoria, err := a.queries.Categoria(ctx, id)
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}
			if categoria.EsPredefinida {
				fmt.Println(cli.FormatError("Las categorías predefinidas no se pueden eliminar."))
				return model.ErrValidation
			}

			if force, _ := cmd.Flags().GetBool("force"); !force {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				ok, err := prompter.Confirm(ctx, fmt.Sprintf("¿Eliminar la categoría %q?", categoria.Nombre), false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Operación cancelada."))
					return nil
				}
			}

			if err := a.queries.EliminarCategoria(ctx, *categoria); err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Categoría %q eliminada.", categoria.Nombre)))
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "no pedir confirmación")

	return cmd
}
