package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gastos-cli/gastos/internal/model"
)

// authResponseRaw is the shape of login and register responses.
type authResponseRaw struct {
	Usuario *usuarioRaw `json:"usuario"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Success bool        `json:"success"`
}

// Availability answers the live username/email checks used during
// registration.
type Availability struct {
	Message   string
	Available bool
}

// Login authenticates against the backend. Wrong credentials come back as an
// unsuccessful result, not an error; errors mean the call itself failed.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := map[string]string{
		"nombreUsuario": strings.TrimSpace(req.Username),
		"password":      req.Password,
	}

	data, err := c.do(ctx, http.MethodPost, pathAuth+"/login", nil, payload)
	if err != nil {
		// The backend answers bad credentials with 401 on some versions
		// and 200 {success:false} on others. Treat both as a result.
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			return &model.AuthResult{Success: false, Message: "Usuario o contraseña incorrectos"}, nil
		}
		return nil, err
	}

	return decodeAuthResult(data)
}

// Register creates a new account. A successful registration does not
// authenticate the session; callers follow up with Login.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := map[string]string{
		"nombreUsuario": strings.TrimSpace(req.Username),
		"password":      req.Password,
		"email":         strings.TrimSpace(req.Email),
		"nombre":        strings.TrimSpace(req.Nombre),
	}

	data, err := c.do(ctx, http.MethodPost, pathAuth+"/register", nil, payload)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == 400 {
			return &model.AuthResult{Success: false, Message: apiErr.Message}, nil
		}
		return nil, err
	}

	return decodeAuthResult(data)
}

// Logout invalidates the backend session. Callers treat failure as
// best-effort; local logout proceeds regardless.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, pathAuth+"/logout", nil, nil)
	return err
}

// Session validates the persisted session and returns the current user.
// A 401 means the session expired.
func (c *Client) Session(ctx context.Context) (*model.Usuario, error) {
	data, err := c.get(ctx, pathAuth+"/session", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Usuario *usuarioRaw `json:"usuario"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Usuario == nil {
		return nil, &Error{Message: "failed to decode session", Err: err}
	}

	usuario := normalizeUsuario(*payload.Usuario)
	return &usuario, nil
}

// CheckUsername asks whether a username is free during registration.
func (c *Client) CheckUsername(ctx context.Context, username string) (Availability, error) {
	return c.checkAvailability(ctx, pathAuth+"/check-username", "username", username)
}

// CheckEmail asks whether an email is free during registration.
func (c *Client) CheckEmail(ctx context.Context, email string) (Availability, error) {
	return c.checkAvailability(ctx, pathAuth+"/check-email", "email", email)
}

func (c *Client) checkAvailability(ctx context.Context, path, param, value string) (Availability, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Availability{Available: false, Message: "valor requerido"}, nil
	}

	query := url.Values{}
	query.Set(param, value)

	data, err := c.get(ctx, path, query)
	if err != nil {
		return Availability{Available: false, Message: "Error al verificar disponibilidad"}, err
	}

	var payload struct {
		Available bool   `json:"available"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Availability{Available: false, Message: "Error al verificar disponibilidad"}, &Error{Message: "failed to decode availability", Err: err}
	}
	return Availability{Available: payload.Available, Message: payload.Message}, nil
}

func decodeAuthResult(data []byte) (*model.AuthResult, error) {
	var raw authResponseRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Message: "failed to decode auth response", Err: err}
	}

	result := &model.AuthResult{
		Success: raw.Success,
		Message: raw.Message,
		Token:   raw.Token,
	}
	if raw.Usuario != nil {
		usuario := normalizeUsuario(*raw.Usuario)
		result.Usuario = &usuario
	}
	return result, nil
}
