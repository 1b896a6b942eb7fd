package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gastos-cli/gastos/internal/api"
	"github.com/gastos-cli/gastos/internal/cache"
	"github.com/gastos-cli/gastos/internal/cli"
	"github.com/gastos-cli/gastos/internal/common"
	"github.com/gastos-cli/gastos/internal/queries"
	"github.com/gastos-cli/gastos/internal/session"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/spf13/viper"
)

// app bundles everything a command needs. Build one per invocation and close
// it when done.
type app struct {
	api      *api.Client
	cache    *cache.Cache
	store    *cache.Store
	session  *session.Holder
	settings *settings.Store
	queries  *queries.Service
}

// newApp wires the client, session, settings store, cache and query service
// together. The session is restored optimistically from disk; commands that
// need a confirmed session call requireSession.
func newApp(ctx context.Context) (*app, error) {
	client, err := api.NewClient(api.Config{
		BaseURL: viper.GetString("api.base_url"),
	})
	if err != nil {
		return nil, err
	}

	sessionPath, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	holder := session.NewHolder(client, sessionPath)
	client.SetTokenSource(holder.Token)
	holder.Restore()

	settingsPath, err := settings.DefaultPath()
	if err != nil {
		return nil, err
	}
	prefStore := settings.NewStore(settingsPath)

	store, err := cache.NewStore(cacheDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrating cache: %w", err)
	}

	c := cache.New(store, holder.Authenticated)
	service := queries.New(client, c, holder.ForceLogout)

	return &app{
		api:      client,
		cache:    c,
		store:    store,
		session:  holder,
		settings: prefStore,
		queries:  service,
	}, nil
}

func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// requireSession fails fast with a friendly message when nobody is logged in.
// A session restored from disk is confirmed against the backend once; an auth
// rejection clears it, a transport error keeps the optimistic state so cached
// reads still work offline.
func (a *app) requireSession(ctx context.Context) error {
	if !a.session.Authenticated() {
		err := common.NewUserError("No hay una sesión activa. Ejecute 'gastos login' primero.", common.ErrNoSession)
		fmt.Println(cli.FormatError(friendlyError(err)))
		return err
	}
	if err := a.session.Validate(ctx); err != nil {
		err = common.NewUserError("La sesión fue rechazada por el backend. Ejecute 'gastos login' nuevamente.", common.ErrSessionExpired)
		fmt.Println(cli.FormatError(friendlyError(err)))
		return err
	}
	return nil
}

// cacheDBPath returns the cache database location, creating the directory.
func cacheDBPath() string {
	if p := viper.GetString("cache.path"); p != "" {
		return expandPath(p)
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "gastos-cache.db"
	}
	full := filepath.Join(dir, ".local", "share", "gastos")
	_ = os.MkdirAll(full, 0o755)
	return filepath.Join(full, "cache.db")
}

// expandPath resolves ~ and $VAR references in user-supplied paths from the
// config file.
func expandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// friendlyError translates the error taxonomy into Spanish for the terminal.
func friendlyError(err error) string {
	var uerr *common.UserError
	switch {
	case errors.As(err, &uerr):
		return uerr.UserMessage
	case errors.Is(err, common.ErrSessionExpired):
		return "La sesión expiró. Ejecute 'gastos login' nuevamente."
	case errors.Is(err, common.ErrNoSession):
		return "No hay una sesión activa. Ejecute 'gastos login' primero."
	case errors.Is(err, common.ErrNotAuthenticated):
		return "La sesión expiró o no es válida. Ejecute 'gastos login' nuevamente."
	case errors.Is(err, common.ErrNotFound):
		return "No se encontró el recurso solicitado."
	case errors.Is(err, common.ErrTimeout):
		return "El servidor tardó demasiado en responder. Intente otra vez."
	case errors.Is(err, common.ErrAPIUnavailable):
		return "No se pudo conectar con el backend. ¿Está corriendo en localhost:8080?"
	default:
		return err.Error()
	}
}
