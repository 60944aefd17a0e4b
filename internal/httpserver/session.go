package httpserver

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/middleware"
	"github.com/stepanovd/tasktrack/internal/service"
)

type SessionHTTP struct {
	Svc *service.SessionService
}

func (h *SessionHTTP) List(c echo.Context) error {
	sessions, err := h.Svc.List(c.Request().Context(), middleware.CurrentUserID(c), middleware.CurrentToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

func (h *SessionHTTP) Revoke(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("Session not found")
	}

	if err := h.Svc.Revoke(c.Request().Context(), sessionID, middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Session revoked successfully"})
}

func (h *SessionHTTP) RevokeOthers(c echo.Context) error {
	token := middleware.CurrentToken(c)
	if token == "" {
		return apperr.Unauthorized("Missing token")
	}

	count, err := h.Svc.RevokeOthers(c.Request().Context(), middleware.CurrentUserID(c), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("%d session(s) revoked successfully", count),
		"count":   count,
	})
}
