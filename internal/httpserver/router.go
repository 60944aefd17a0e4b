package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/stepanovd/tasktrack/internal/middleware"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	SessionHandler *SessionHTTP
	TaskHandler    *TaskHTTP
	Auth           *middleware.Auth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok"})
	})

	auth := e.Group("/api/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/profile", d.AuthHandler.Profile, d.Auth.RequireAuth)
	auth.PUT("/profile", d.AuthHandler.UpdateProfile, d.Auth.RequireAuth)
	auth.PUT("/password", d.AuthHandler.ChangePassword, d.Auth.RequireAuth)

	sessions := e.Group("/api/sessions", d.Auth.RequireAuth)
	sessions.GET("", d.SessionHandler.List)
	sessions.DELETE("/:id", d.SessionHandler.Revoke)
	sessions.POST("/revoke-all", d.SessionHandler.RevokeOthers)

	tasks := e.Group("/api/tasks", d.Auth.RequireAuth)
	tasks.GET("/search", d.TaskHandler.Search)
	tasks.POST("", d.TaskHandler.Create)
	tasks.GET("", d.TaskHandler.List)
	tasks.GET("/:id", d.TaskHandler.Get)
	tasks.PUT("/:id", d.TaskHandler.Update)
	tasks.DELETE("/:id", d.TaskHandler.Delete)
}
