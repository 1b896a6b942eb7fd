// Package session is the single source of truth for "is a user logged in".
// The session survives between CLI runs in a state file; on startup it is
// restored optimistically and validated against the backend on first use.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gastos-cli/gastos/internal/api"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// State is the holder's authentication state.
type State int

const (
	// StateUnknown means the persisted session has not been checked yet.
	StateUnknown State = iota
	// StateAuthenticated means a user is logged in (possibly optimistically,
	// pending background validation).
	StateAuthenticated
	// StateUnauthenticated means no user is logged in.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// AuthAPI is the slice of the API client the holder needs.
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*model.Usuario, error)
}

// persisted is the on-disk session shape.
type persisted struct {
	SavedAt time.Time     `json:"saved_at"`
	Usuario model.Usuario `json:"usuario"`
	Token   string        `json:"token,omitempty"`
}

// Holder tracks the current user and authentication flag.
type Holder struct {
	authAPI AuthAPI
	logger  *slog.Logger
	usuario *model.Usuario
	path    string
	token   string
	state   State
	mu      sync.RWMutex
}

// NewHolder creates a holder persisting to path. State starts unknown until
// Restore runs.
func NewHolder(authAPI AuthAPI, path string) *Holder {
	return &Holder{
		authAPI: authAPI,
		path:    path,
		state:   StateUnknown,
		logger:  slog.Default().With("component", "session"),
	}
}

// DefaultPath returns the session file location under the XDG data dir.
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	dir := filepath.Join(dataDir, "gastos")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(dir, "session.json"), nil
}

// Restore loads the persisted session, if any. A saved user moves the holder
// optimistically to authenticated; Validate confirms or revokes it. A token
// that parses as a JWT with a past expiry short-circuits straight to
// unauthenticated.
func (h *Holder) Restore() {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if err != nil {
		h.state = StateUnauthenticated
		return
	}

	var saved persisted
	if err := json.Unmarshal(data, &saved); err != nil {
		h.logger.Warn("corrupt session file, discarding", "path", h.path)
		h.clearLocked()
		return
	}

	if saved.Token != "" && tokenExpired(saved.Token) {
		h.logger.Debug("saved token expired, discarding session")
		h.clearLocked()
		return
	}

	usuario := saved.Usuario
	h.usuario = &usuario
	h.token = saved.Token
	h.state = StateAuthenticated
	h.logger.Debug("session restored", "username", usuario.Username, "saved_at", saved.SavedAt)
}

// Validate confirms the restored session against the backend. An auth error
// revokes it; transport errors keep the optimistic state so the CLI still
// works offline against the cache.
func (h *Holder) Validate(ctx context.Context) error {
	usuario, err := h.authAPI.Session(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			h.logger.Info("session rejected by backend, logging out")
			h.ForceLogout()
			return err
		}
		h.logger.Debug("session validation unreachable, keeping cached session", "error", err)
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.usuario = usuario
	h.state = StateAuthenticated
	h.persistLocked()
	return nil
}

// Login authenticates and persists the session on success. Wrong credentials
// leave the holder unauthenticated with the backend's message.
func (h *Holder) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	result, err := h.authAPI.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !result.Success || result.Usuario == nil {
		h.state = StateUnauthenticated
		return result, nil
	}

	h.usuario = result.Usuario
	h.token = result.Token
	h.state = StateAuthenticated
	h.persistLocked()
	return result, nil
}

// Logout calls the backend best-effort and clears local state unconditionally.
func (h *Holder) Logout(ctx context.Context) {
	if err := h.authAPI.Logout(ctx); err != nil {
		h.logger.Debug("backend logout failed, clearing local session anyway", "error", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
}

// Register creates an account. It never authenticates the session by itself.
func (h *Holder) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	return h.authAPI.Register(ctx, req)
}

// ForceLogout drops the session without calling the backend. Every observed
// 401/403 funnels here so a stale session cannot keep issuing requests.
func (h *Holder) ForceLogout() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
}

// State returns the current authentication state.
func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Authenticated reports whether a user is logged in.
func (h *Holder) Authenticated() bool {
	return h.State() == StateAuthenticated
}

// CurrentUser returns the logged-in user, nil when there is none.
func (h *Holder) CurrentUser() *model.Usuario {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.usuario == nil {
		return nil
	}
	u := *h.usuario
	return &u
}

// Token returns the bearer token, empty for cookie-based deployments.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *Holder) persistLocked() {
	if h.usuario == nil {
		return
	}
	data, err := json.MarshalIndent(persisted{
		Usuario: *h.usuario,
		Token:   h.token,
		SavedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		h.logger.Warn("failed to encode session", "error", err)
		return
	}
	if err := os.WriteFile(h.path, data, 0600); err != nil {
		h.logger.Warn("failed to persist session", "path", h.path, "error", err)
	}
}

func (h *Holder) clearLocked() {
	h.usuario = nil
	h.token = ""
	h.state = StateUnauthenticated
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		h.logger.Warn("failed to remove session file", "path", h.path, "error", err)
	}
}

// tokenExpired reports whether a JWT's exp claim is in the past. The parse is
// unverified: the backend owns the signature, the client only reads the
// expiry to avoid a doomed round trip.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque tokens are fine; the backend will judge them.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
