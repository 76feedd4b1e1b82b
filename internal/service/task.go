package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solardev/solar-api/internal/apperror"
	"github.com/solardev/solar-api/internal/model"
	"github.com/solardev/solar-api/internal/repository"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// TaskUpdate is a partial update: nil fields are left unchanged.
//
// Description deserves a note: nil means "don't touch it" (same as every
// other field), while a pointer to "" means "clear it to an empty
// description". That is the one way to blank a description over the API.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskService handles business logic for tasks. It also holds the user
// repository because creating a task requires the owner to exist.
type TaskService struct {
	repo   repository.TaskRepository
	users  repository.UserRepository
	logger *slog.Logger
}

func NewTaskService(repo repository.TaskRepository, users repository.UserRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return "", apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	return title, nil
}

func validateDescription(description *string) error {
	if description != nil && len(*description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	return nil
}

// Create validates and stores a new task for an existing user.
// New tasks always start incomplete. Returns apperror.ErrNotFound if userID
// does not reference an existing user.
func (s *TaskService) Create(ctx context.Context, title string, description *string, userID int64) (*model.Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	// The owner must exist. The repository's foreign key is the backstop for
	// the race where the user disappears between this check and the insert.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       title,
		Description: description,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.Int64("id", task.ID),
		slog.Int64("user_id", task.UserID),
	)
	return task, nil
}

// Get retrieves a task by id. Returns apperror.ErrNotFound if absent.
func (s *TaskService) Get(ctx context.Context, id int64) (*model.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns tasks ordered by id ascending. userID and completed are
// optional filters; when both are given a task must match both. Pagination
// works like the user listing: skip/limit, no total count.
func (s *TaskService) List(ctx context.Context, userID *int64, completed *bool, skip, limit int) ([]model.Task, error) {
	offset, clamped := clampPage(skip, limit)

	tasks, err := s.repo.List(ctx, repository.TaskFilter{
		UserID:    userID,
		Completed: completed,
		Limit:     clamped,
		Offset:    offset,
	})
	if err != nil {
		s.logger.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial update to a task; only non-nil fields change.
// Any successful update refreshes the task's updated_at timestamp.
func (s *TaskService) Update(ctx context.Context, id int64, upd TaskUpdate) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title, err := validateTitle(*upd.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if upd.Description != nil {
		if err := validateDescription(upd.Description); err != nil {
			return nil, err
		}
		if *upd.Description == "" {
			// An empty string clears the description back to NULL.
			task.Description = nil
		} else {
			task.Description = upd.Description
		}
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	if err := s.repo.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.logger.Info("task updated", slog.Int64("id", task.ID))
	return task, nil
}

// Toggle flips the task's completed flag. The flip happens atomically in the
// repository, so concurrent toggles on the same task serialize instead of
// overwriting each other.
func (s *TaskService) Toggle(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.repo.Toggle(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("task toggled",
		slog.Int64("id", task.ID),
		slog.Bool("completed", task.Completed),
	)
	return task, nil
}

// Delete removes a task by id. Returns apperror.ErrNotFound if absent.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", slog.Int64("id", id))
	return nil
}
