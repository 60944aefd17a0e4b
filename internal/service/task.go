package service

import (
	"context"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/apperr"
	"github.com/stepanovd/tasktrack/internal/es"
	"github.com/stepanovd/tasktrack/internal/logging"
	"github.com/stepanovd/tasktrack/internal/models"
	"github.com/stepanovd/tasktrack/internal/repo"
)

type TaskService struct {
	Repo    *repo.GormRepo
	ES      *elasticsearch.Client
	ESIndex string
}

type TaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, in TaskInput) (*models.Task, error) {
	status := in.Status
	if status == "" {
		status = "todo"
	}
	task := models.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
	}
	if err := s.Repo.CreateTask(ctx, &task); err != nil {
		return nil, apperr.Internal(err)
	}
	s.index(ctx, &task)
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.Repo.TasksByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Task, error) {
	task, err := s.Repo.TaskByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, apperr.Internal(err)
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id, userID uuid.UUID, in TaskInput) (*models.Task, error) {
	task, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		task.Title = in.Title
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.Status != "" {
		task.Status = in.Status
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	if err := s.Repo.SaveTask(ctx, task); err != nil {
		return nil, apperr.Internal(err)
	}
	s.index(ctx, task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.Repo.DeleteTask(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Task not found")
		}
		return apperr.Internal(err)
	}
	if s.ES != nil {
		if err := es.DeleteTask(ctx, s.ES, s.ESIndex, id.String()); err != nil {
			logging.FromContext(ctx).Warn("es_delete_failed", "task_id", id, "error", err)
		}
	}
	return nil
}

// index mirrors the task into the search index, best-effort.
func (s *TaskService) index(ctx context.Context, task *models.Task) {
	if s.ES == nil {
		return
	}
	if err := es.IndexTask(ctx, s.ES, s.ESIndex, task); err != nil {
		logging.FromContext(ctx).Warn("es_index_failed", "task_id", task.ID, "error", err)
	}
}
