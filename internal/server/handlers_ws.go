package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/pablodealeht/windowdeck/internal/control"
	apperrors "github.com/pablodealeht/windowdeck/internal/errors"
	"github.com/pablodealeht/windowdeck/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Desktop clients connect from arbitrary origins.
		return true
	},
}

// handleWebSocket authenticates the client, applies connection limits, and
// hands the upgraded connection to a control session.
func (s *Server) handleWebSocket(c echo.Context) error {
	token := c.QueryParam("access_token")
	if token == "" {
		metrics.AuthFailures.WithLabelValues("missing_token").Inc()
		return apperrors.UnauthorizedError("missing access_token")
	}

	userID, err := s.auth.ParseToken(token)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
		return apperrors.UnauthorizedError("invalid or expired token")
	}

	ip := c.RealIP()
	ok, reason := s.limits.Acquire(ip)
	if !ok {
		slog.Warn("Connection rejected", "ip", ip, "reason", reason)
		return echo.NewHTTPError(http.StatusTooManyRequests, "connection limit reached")
	}
	defer s.limits.Release(ip)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("Failed to upgrade connection", "error", err, "user_id", userID)
		return nil
	}

	session := control.NewSession(conn, s.dispatcher)
	session.Run(c.Request().Context())

	return nil
}
