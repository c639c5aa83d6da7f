package server

import (
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/pablodealeht/windowdeck/internal/errors"
	"github.com/pablodealeht/windowdeck/internal/metrics"
)

// requireAuth validates the bearer token and stores the user ID in the
// request context under "userID".
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			metrics.AuthFailures.WithLabelValues("missing_token").Inc()
			return apperrors.UnauthorizedError("missing bearer token")
		}

		userID, err := s.auth.ParseToken(token)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
			return apperrors.UnauthorizedError("invalid or expired token")
		}

		c.Set("userID", userID)
		return next(c)
	}
}
