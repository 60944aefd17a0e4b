package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/logging"
)

// NewErrorHandler is the single boundary translator: taxonomy in, uniform
// JSON out. Internal detail stays in the logs.
func NewErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		l := logging.FromContext(c.Request().Context())

		if e, ok := apperr.As(err); ok {
			if e.Status >= http.StatusInternalServerError {
				l.Error("internal_error", "error", e.Err)
			}
			body := echo.Map{"message": e.Message}
			if len(e.Fields) > 0 {
				body["errors"] = e.Fields
			}
			_ = c.JSON(e.Status, body)
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, echo.Map{"message": fmt.Sprint(he.Message)})
			return
		}

		l.Error("internal_error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
}
