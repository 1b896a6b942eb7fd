package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gastos-cli/gastos/internal/api"
	"github.com/gastos-cli/gastos/internal/common"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/gastos-cli/gastos/internal/session"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "auth error",
			err:  fmt.Errorf("wrap: %w", common.ErrNotAuthenticated),
			want: "La sesión expiró o no es válida. Ejecute 'gastos login' nuevamente.",
		},
		{
			name: "not found",
			err:  common.ErrNotFound,
			want: "No se encontró el recurso solicitado.",
		},
		{
			name: "unavailable",
			err:  common.ErrAPIUnavailable,
			want: "No se pudo conectar con el backend. ¿Está corriendo en localhost:8080?",
		},
		{
			name: "wrapped API auth error",
			err:  &api.Error{Err: common.ErrNotAuthenticated, Status: 401},
			want: "La sesión expiró o no es válida. Ejecute 'gastos login' nuevamente.",
		},
		{
			name: "no session",
			err:  common.ErrNoSession,
			want: "No hay una sesión activa. Ejecute 'gastos login' primero.",
		},
		{
			name: "expired session",
			err:  common.ErrSessionExpired,
			want: "La sesión expiró. Ejecute 'gastos login' nuevamente.",
		},
		{
			name: "user error wins over sentinels",
			err:  common.NewUserError("Mensaje para el usuario", common.ErrNotFound),
			want: "Mensaje para el usuario",
		},
		{
			name: "other error passes through",
			err:  fmt.Errorf("algo salió mal"),
			want: "algo salió mal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, friendlyError(tt.err))
		})
	}
}

type fakeAuthAPI struct {
	sessionErr error
	usuario    *model.Usuario
}

func (f *fakeAuthAPI) Login(_ context.Context, _ model.LoginRequest) (*model.AuthResult, error) {
	return &model.AuthResult{Success: true, Usuario: f.usuario}, nil
}

func (f *fakeAuthAPI) Register(_ context.Context, _ model.RegisterRequest) (*model.AuthResult, error) {
	return &model.AuthResult{Success: true}, nil
}

func (f *fakeAuthAPI) Logout(_ context.Context) error { return nil }

func (f *fakeAuthAPI) Session(_ context.Context) (*model.Usuario, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.usuario, nil
}

func loggedInApp(t *testing.T, fake *fakeAuthAPI) *app {
	t.Helper()
	holder := session.NewHolder(fake, filepath.Join(t.TempDir(), "session.json"))
	_, err := holder.Login(context.Background(), model.LoginRequest{Username: "ana", Password: "x"})
	require.NoError(t, err)
	return &app{session: holder}
}

func TestRequireSessionWithoutLogin(t *testing.T) {
	holder := session.NewHolder(&fakeAuthAPI{}, filepath.Join(t.TempDir(), "session.json"))
	holder.Restore()
	a := &app{session: holder}

	err := a.requireSession(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)
}

func TestRequireSessionRevokedByBackend(t *testing.T) {
	fake := &fakeAuthAPI{usuario: &model.Usuario{Username: "ana"}}
	a := loggedInApp(t, fake)

	fake.sessionErr = &api.Error{Err: common.ErrNotAuthenticated, Status: 401}

	err := a.requireSession(context.Background())
	assert.ErrorIs(t, err, common.ErrSessionExpired)
	assert.False(t, a.session.Authenticated(), "revoked session is cleared")
}

func TestRequireSessionKeepsSessionOffline(t *testing.T) {
	fake := &fakeAuthAPI{usuario: &model.Usuario{Username: "ana"}}
	a := loggedInApp(t, fake)

	fake.sessionErr = fmt.Errorf("connection refused")

	err := a.requireSession(context.Background())
	assert.NoError(t, err, "transport errors keep the optimistic session")
	assert.True(t, a.session.Authenticated())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("GASTOS_TEST_DIR", "/tmp/gastos")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain path untouched", in: "/var/lib/gastos.db", want: "/var/lib/gastos.db"},
		{name: "tilde prefix", in: "~/data/cache.db", want: filepath.Join(home, "data", "cache.db")},
		{name: "bare tilde", in: "~", want: home},
		{name: "env var", in: "$GASTOS_TEST_DIR/cache.db", want: "/tmp/gastos/cache.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandPath(tt.in))
		})
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "corto", clip("corto", 10))
	assert.Equal(t, "categoría", clip("categoría", 9))
	assert.Equal(t, "demasiado…", clip("demasiado larga", 10))
}

func TestCurrencyCodes(t *testing.T) {
	codes := currencyCodes()

	assert.Contains(t, codes, "USD")
	assert.Contains(t, codes, "EUR")
	assert.Contains(t, codes, "ARS")
}

func newFilterCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Int64("categoria", 0, "")
	cmd.Flags().String("tipo", "", "")
	cmd.Flags().String("desde", "", "")
	cmd.Flags().String("hasta", "", "")
	cmd.Flags().String("buscar", "", "")
	return cmd
}

func TestFiltroFromFlags(t *testing.T) {
	cmd := newFilterCommand()
	require.NoError(t, cmd.Flags().Set("categoria", "3"))
	require.NoError(t, cmd.Flags().Set("tipo", "ingreso"))
	require.NoError(t, cmd.Flags().Set("desde", "01/03/2025"))
	require.NoError(t, cmd.Flags().Set("buscar", "super"))

	filtro, err := filtroFromFlags(cmd, "DD/MM/YYYY")
	require.NoError(t, err)

	assert.Equal(t, int64(3), filtro.CategoriaID)
	assert.Equal(t, model.TipoIngreso, filtro.Tipo)
	assert.Equal(t, "super", filtro.Descripcion)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), filtro.FechaDesde)
	assert.True(t, filtro.FechaHasta.IsZero())
}

func TestFiltroFromFlagsRejectsBadTipo(t *testing.T) {
	cmd := newFilterCommand()
	require.NoError(t, cmd.Flags().Set("tipo", "otro"))

	_, err := filtroFromFlags(cmd, "DD/MM/YYYY")
	assert.Error(t, err)
}

func TestFiltroFromFlagsRejectsBadDate(t *testing.T) {
	cmd := newFilterCommand()
	require.NoError(t, cmd.Flags().Set("hasta", "2025/03/01"))

	_, err := filtroFromFlags(cmd, "DD/MM/YYYY")
	assert.Error(t, err)
}

func TestFiltroFromFlagsEmpty(t *testing.T) {
	filtro, err := filtroFromFlags(newFilterCommand(), "DD/MM/YYYY")
	require.NoError(t, err)
	assert.True(t, filtro.IsZero())
}
