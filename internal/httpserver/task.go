package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/middleware"
	"github.com/stepanovd/tasktrack/internal/service"
	"github.com/stepanovd/tasktrack/internal/service/search"
	"github.com/stepanovd/tasktrack/internal/util"
)

type TaskHTTP struct {
	Svc *service.TaskService
}

func (h *TaskHTTP) Create(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation(map[string]string{"body": "invalid body"})
	}
	if errs := req.validate(true); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	task, err := h.Svc.Create(c.Request().Context(), middleware.CurrentUserID(c), service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"task": task})
}

func (h *TaskHTTP) List(c echo.Context) error {
	tasks, err := h.Svc.List(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": tasks})
}

func (h *TaskHTTP) Get(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("Task not found")
	}
	task, err := h.Svc.Get(c.Request().Context(), taskID, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"task": task})
}

func (h *TaskHTTP) Update(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("Task not found")
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation(map[string]string{"body": "invalid body"})
	}
	if errs := req.validate(false); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	task, err := h.Svc.Update(c.Request().Context(), taskID, middleware.CurrentUserID(c), service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"task": task})
}

func (h *TaskHTTP) Delete(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("Task not found")
	}
	if err := h.Svc.Delete(c.Request().Context(), taskID, middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Task deleted successfully"})
}

func (h *TaskHTTP) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.Validation(map[string]string{"q": "Search query is required"})
	}
	if h.Svc.ES == nil {
		return apperr.Internal(errors.New("search is not configured"))
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, tasks, err := search.Tasks(c.Request().Context(), h.Svc.ES, h.Svc.ESIndex, middleware.CurrentUserID(c), q, from, size)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "tasks": tasks})
}
