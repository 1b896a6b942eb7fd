package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gastos-cli/gastos/internal/api"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	loginResult   *model.AuthResult
	loginErr      error
	sessionUser   *model.Usuario
	sessionErr    error
	logoutErr     error
	logoutCalls   int
	registerCalls int
}

func (f *fakeAuthAPI) Login(_ context.Context, _ model.LoginRequest) (*model.AuthResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, _ model.RegisterRequest) (*model.AuthResult, error) {
	f.registerCalls++
	return &model.AuthResult{Success: true, Message: "Usuario registrado exitosamente"}, nil
}

func (f *fakeAuthAPI) Logout(_ context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAuthAPI) Session(_ context.Context) (*model.Usuario, error) {
	return f.sessionUser, f.sessionErr
}

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "testuser",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestRestoreNoFile(t *testing.T) {
	h := NewHolder(&fakeAuthAPI{}, testPath(t))
	assert.Equal(t, StateUnknown, h.State())

	h.Restore()

	assert.Equal(t, StateUnauthenticated, h.State())
	assert.Nil(t, h.CurrentUser())
}

func TestLoginPersistsSession(t *testing.T) {
	path := testPath(t)
	fake := &fakeAuthAPI{
		loginResult: &model.AuthResult{
			Success: true,
			Token:   signedToken(t, time.Now().Add(time.Hour)),
			Usuario: &model.Usuario{ID: 7, Username: "maria", Email: "maria@example.com"},
		},
	}
	h := NewHolder(fake, path)

	result, err := h.Login(context.Background(), model.LoginRequest{Username: "maria", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, h.Authenticated())
	require.NotNil(t, h.CurrentUser())
	assert.Equal(t, "maria", h.CurrentUser().Username)

	// A fresh holder restores the same session from disk.
	restored := NewHolder(fake, path)
	restored.Restore()
	assert.Equal(t, StateAuthenticated, restored.State())
	require.NotNil(t, restored.CurrentUser())
	assert.Equal(t, int64(7), restored.CurrentUser().ID)
	assert.NotEmpty(t, restored.Token())
}

func TestLoginWrongCredentials(t *testing.T) {
	fake := &fakeAuthAPI{
		loginResult: &model.AuthResult{Success: false, Message: "Usuario o contraseña incorrectos"},
	}
	h := NewHolder(fake, testPath(t))

	result, err := h.Login(context.Background(), model.LoginRequest{Username: "maria", Password: "wrong"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, StateUnauthenticated, h.State())
	assert.Nil(t, h.CurrentUser())
}

func TestRestoreExpiredTokenClearsSession(t *testing.T) {
	path := testPath(t)
	fake := &fakeAuthAPI{
		loginResult: &model.AuthResult{
			Success: true,
			Token:   signedToken(t, time.Now().Add(-time.Hour)),
			Usuario: &model.Usuario{ID: 1, Username: "maria"},
		},
	}
	h := NewHolder(fake, path)
	_, err := h.Login(context.Background(), model.LoginRequest{Username: "maria", Password: "secret"})
	require.NoError(t, err)

	restored := NewHolder(fake, path)
	restored.Restore()

	assert.Equal(t, StateUnauthenticated, restored.State())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "expired session file should be removed")
}

func TestRestoreOpaqueTokenKept(t *testing.T) {
	path := testPath(t)
	fake := &fakeAuthAPI{
		loginResult: &model.AuthResult{
			Success: true,
			Token:   "not-a-jwt-at-all",
			Usuario: &model.Usuario{ID: 1, Username: "maria"},
		},
	}
	h := NewHolder(fake, path)
	_, err := h.Login(context.Background(), model.LoginRequest{Username: "maria", Password: "secret"})
	require.NoError(t, err)

	restored := NewHolder(fake, path)
	restored.Restore()

	assert.Equal(t, StateAuthenticated, restored.State())
}

func TestValidateAuthErrorForcesLogout(t *testing.T) {
	path := testPath(t)
	fake := &fakeAuthAPI{
		loginResult: &model.AuthResult{
			Success: true,
			Usuario: &model.Usuario{ID: 1, Username: "maria"},
		},
	}
	h := NewHolder(fake, path)
	_, err := h.Login(context.Background(), model.LoginRequest{Username: "maria", Password: "secret"})
	require.NoError(t, err)

	fake.sessionErr = &api.Error{Message: "no autenticado", Status: 401}
	err = h.Validate(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateUnauthenticated, h.State())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidateTransportErrorKeepsSession(t *testing.T) {
	fake := &fakeAuthAPI{
		loginResult: &model.AuthResult{
			Success: true,
			Usuario: &model.Usuario{ID: 1, Username: "maria"},
		},
		sessionErr: &api.Error{Message: "servidor no disponible", Status: 503},
	}
	h := NewHolder(fake, testPath(t))
	_, err := h.Login(context.Background(), model.LoginRequest{Username: "maria", Password: "secret"})
	require.NoError(t, err)

	err = h.Validate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, h.State())
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	path := testPath(t)
	fake := &fakeAuthAPI{
		loginResult: &model.AuthResult{
			Success: true,
			Usuario: &model.Usuario{ID: 1, Username: "maria"},
		},
		logoutErr: &api.Error{Message: "servidor no disponible", Status: 503},
	}
	h := NewHolder(fake, path)
	_, err := h.Login(context.Background(), model.LoginRequest{Username: "maria", Password: "secret"})
	require.NoError(t, err)

	h.Logout(context.Background())

	assert.Equal(t, 1, fake.logoutCalls)
	assert.Equal(t, StateUnauthenticated, h.State())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	fake := &fakeAuthAPI{}
	h := NewHolder(fake, testPath(t))
	h.Restore()

	result, err := h.Register(context.Background(), model.RegisterRequest{
		Username: "nuevo",
		Email:    "nuevo@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, fake.registerCalls)
	assert.Equal(t, StateUnauthenticated, h.State())
}
