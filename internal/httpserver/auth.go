package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/device"
	"github.com/stepanovd/tasktrack/internal/logging"
	"github.com/stepanovd/tasktrack/internal/middleware"
	"github.com/stepanovd/tasktrack/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return apperr.Validation(map[string]string{"body": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	res, err := h.Svc.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}, device.FromRequest(c.Request()))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"token": res.Token,
		"user":  res.User,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return apperr.Validation(map[string]string{"body": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	res, err := h.Svc.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, device.FromRequest(c.Request()))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": res.Token,
		"user":  res.User,
	})
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	user, err := h.Svc.Profile(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation(map[string]string{"body": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	user, err := h.Svc.UpdateProfile(c.Request().Context(), middleware.CurrentUserID(c), service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation(map[string]string{"body": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	err := h.Svc.ChangePassword(c.Request().Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}
