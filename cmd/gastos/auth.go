package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/gastos-cli/gastos/internal/cli"
	"github.com/gastos-cli/gastos/internal/format"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [usuario]",
		Short: "Inicia sesión en el backend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var username string
			if len(args) > 0 {
				username = args[0]
			} else {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				username, err = prompter.Line(ctx, "Usuario", "")
				if err != nil {
					return err
				}
			}
			if strings.TrimSpace(username) == "" {
				return fmt.Errorf("el usuario no puede estar vacío")
			}

			password, err := readPassword("Contraseña: ")
			if err != nil {
				return err
			}

			result, err := a.session.Login(ctx, model.LoginRequest{
				Username: username,
				Password: password,
			})
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}
			if !result.Success {
				msg := result.Message
				if msg == "" {
					msg = "usuario o contraseña incorrectos"
				}
				fmt.Println(cli.FormatError(msg))
				return fmt.Errorf("login rechazado")
			}

			nombre := username
			if result.Usuario != nil && result.Usuario.Nombre != "" {
				nombre = result.Usuario.Nombre
			}
			fmt.Println(cli.FormatSuccess("Sesión iniciada. ¡Hola, " + nombre + "!"))
			return nil
		},
	}
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión actual",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			a.session.Logout(cmd.Context())
			fmt.Println(cli.FormatSuccess("Sesión cerrada."))
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Crea una cuenta nueva",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			prompter := cli.NewPrompter(os.Stdin, os.Stdout)

			username, err := prompter.Line(ctx, "Usuario", "")
			if err != nil {
				return err
			}
			// Best effort: a transport failure here should not block the
			// registration attempt itself.
			if avail, checkErr := a.api.CheckUsername(ctx, username); checkErr == nil && !avail.Available {
				msg := avail.Message
				if msg == "" {
					msg = "ese usuario ya está en uso"
				}
				fmt.Println(cli.FormatError(msg))
				return fmt.Errorf("usuario no disponible")
			}

			email, err := prompter.Line(ctx, "Email", "")
			if err != nil {
				return err
			}
			if avail, checkErr := a.api.CheckEmail(ctx, email); checkErr == nil && !avail.Available {
				msg := avail.Message
				if msg == "" {
					msg = "ese email ya está registrado"
				}
				fmt.Println(cli.FormatError(msg))
				return fmt.Errorf("email no disponible")
			}
			nombre, err := prompter.Line(ctx, "Nombre", "")
			if err != nil {
				return err
			}
			password, err := readPassword("Contraseña: ")
			if err != nil {
				return err
			}

			result, err := a.session.Register(ctx, model.RegisterRequest{
				Username: strings.TrimSpace(username),
				Email:    strings.TrimSpace(email),
				Nombre:   strings.TrimSpace(nombre),
				Password: password,
			})
			if err != nil {
				fmt.Println(cli.FormatError(friendlyError(err)))
				return err
			}
			if !result.Success {
				msg := result.Message
				if msg == "" {
					msg = "el registro fue rechazado"
				}
				fmt.Println(cli.FormatError(msg))
				return fmt.Errorf("registro rechazado")
			}

			fmt.Println(cli.FormatSuccess("Cuenta creada. Ejecute 'gastos login' para entrar."))
			return nil
		},
	}
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra la sesión actual",
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

			usuario := a.session.CurrentUser()
			if usuario == nil {
				fmt.Println(cli.FormatWarning("Sesión sin datos de usuario."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Sesión actual"))
			fmt.Printf("  Usuario: %s\n", usuario.Username)
			fmt.Printf("  Nombre:  %s\n", usuario.Nombre)
			fmt.Printf("  Email:   %s\n", usuario.Email)
			if !usuario.UltimoAcceso.IsZero() {
				fmt.Printf("  Último acceso: %s\n", format.Date(usuario.UltimoAcceso, a.settings.Get().DateFormat))
			}
			return nil
		},
	}
}

// readPassword reads without echo, falling back to a plain line when stdin
// is not a terminal.
func readPassword(prompt string) (string, error) {
	fmt.Print(cli.FormatPrompt(prompt))
	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		return "", err
	}
	return line, nil
}
