package service

import (
	"context"

	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/internal/dto"
	"github.com/imartins/task-api/internal/repository"
)

// taskService implements TaskService interface
type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// List returns all of the user's tasks
func (s *taskService) List(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return s.taskRepo.GetAllForUser(ctx, userID)
}

// Get returns one of the user's tasks
func (s *taskService) Get(ctx context.Context, id, userID int64) (*domain.Task, error) {
	return s.taskRepo.GetForUser(ctx, id, userID)
}

// Create validates and creates a task for the user
func (s *taskService) Create(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*domain.Task, error) {
	if req.Name == "" {
		return nil, &ValidationError{Errors: []string{"name is required"}}
	}

	task := &domain.Task{
		UserID:   userID,
		Name:     req.Name,
		Priority: req.Priority,
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	if err := s.taskRepo.CreateForUser(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies a partial update to one of the user's tasks
func (s *taskService) Update(ctx context.Context, id, userID int64, req *dto.UpdateTaskRequest) (int64, error) {
	if req.Name != nil && *req.Name == "" {
		return 0, &ValidationError{Errors: []string{"name must not be empty"}}
	}

	return s.taskRepo.UpdateForUser(ctx, id, userID, repository.TaskUpdate{
		Name:        req.Name,
		Priority:    req.Priority,
		IsCompleted: req.IsCompleted,
	})
}

// Delete removes one of the user's tasks
func (s *taskService) Delete(ctx context.Context, id, userID int64) (int64, error) {
	return s.taskRepo.DeleteForUser(ctx, id, userID)
}
