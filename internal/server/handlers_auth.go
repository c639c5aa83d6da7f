package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pablodealeht/windowdeck/internal/auth"
	"github.com/pablodealeht/windowdeck/internal/domain"
	apperrors "github.com/pablodealeht/windowdeck/internal/errors"
	"github.com/pablodealeht/windowdeck/internal/metrics"
)

const minPasswordLength = 8

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperrors.ValidationError("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return apperrors.ValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError("failed to hash password", err)
	}

	user, err := s.users.Create(ctx, req.Email, hash, strings.TrimSpace(req.FullName))
	if errors.Is(err, domain.ErrEmailTaken) {
		return apperrors.ConflictError("email already registered")
	}
	if err != nil {
		return apperrors.InternalError("failed to create user", err)
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return apperrors.InternalError("failed to issue token", err)
	}

	if err := c.JSON(http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
		return apperrors.UnauthorizedError("invalid email or password")
	}
	if err != nil {
		return apperrors.InternalError("failed to load user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
		return apperrors.UnauthorizedError("invalid email or password")
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return apperrors.InternalError("failed to issue token", err)
	}

	if err := c.JSON(http.StatusOK, authResponse{Token: token, User: toUserResponse(user)}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
