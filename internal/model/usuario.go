package model

import (
	"fmt"
	"strings"
	"time"
)

// Usuario is the authenticated account on the backend.
type Usuario struct {
	FechaCreacion time.Time
	UltimoAcceso  time.Time
	Username      string
	Email         string
	Nombre        string
	ID            int64
	Activo        bool
}

// LoginRequest carries credentials for POST /auth/login.
type LoginRequest struct {
	Username string
	Password string
}

// Validate checks credentials locally.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

// RegisterRequest carries the fields for POST /auth/register.
type RegisterRequest struct {
	Username string
	Password string
	Email    string
	Nombre   string
}

// Validate checks the registration data locally.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(r.Password) < 4 {
		return fmt.Errorf("%w: password must be at least 4 characters", ErrValidation)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrValidation)
	}
	return nil
}

// AuthResult is the backend's answer to login and register calls.
type AuthResult struct {
	Message string
	Token   string
	Usuario *Usuario
	Success bool
}
