package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pablodealeht/windowdeck/internal/domain"
	apperrors "github.com/pablodealeht/windowdeck/internal/errors"
)

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (s *Server) handleListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := s.users.List(ctx)
	if err != nil {
		return apperrors.InternalError("failed to list users", err)
	}

	responses := make([]userResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}

	if err := c.JSON(http.StatusOK, responses); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCurrentUser(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return apperrors.InternalError("invalid user ID in context", nil)
	}
	return s.respondWithUser(c, userID)
}

func (s *Server) handleGetUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid user ID").WithField("id", c.Param("id"))
	}
	return s.respondWithUser(c, userID)
}

func (s *Server) respondWithUser(c echo.Context, userID uuid.UUID) error {
	ctx := c.Request().Context()

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return apperrors.NotFoundError("user not found").WithField("user_id", userID.String())
	}
	if err != nil {
		return apperrors.InternalError("failed to load user", err)
	}

	if err := c.JSON(http.StatusOK, toUserResponse(user)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid user ID").WithField("id", c.Param("id"))
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperrors.ValidationError("invalid email address")
	}

	user, err := s.users.Update(ctx, userID, req.Email, strings.TrimSpace(req.FullName))
	if errors.Is(err, domain.ErrUserNotFound) {
		return apperrors.NotFoundError("user not found").WithField("user_id", userID.String())
	}
	if errors.Is(err, domain.ErrEmailTaken) {
		return apperrors.ConflictError("email already registered")
	}
	if err != nil {
		return apperrors.InternalError("failed to update user", err)
	}

	if err := c.JSON(http.StatusOK, toUserResponse(user)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid user ID").WithField("id", c.Param("id"))
	}

	if err := s.users.Delete(ctx, userID); errors.Is(err, domain.ErrUserNotFound) {
		return apperrors.NotFoundError("user not found").WithField("user_id", userID.String())
	} else if err != nil {
		return apperrors.InternalError("failed to delete user", err)
	}

	return c.NoContent(http.StatusNoContent)
}
