// Package repository declares the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// tests substitute in-memory mocks. Services only ever see these interfaces.
package repository

import (
	"context"

	"github.com/solardev/solar-api/internal/model"
)

// ListOptions implements offset pagination: skip Offset rows, return at most
// Limit rows. Listings are ordered by id ascending and carry no total count —
// a caller detects the last page by receiving fewer than Limit rows.
type ListOptions struct {
	Limit  int
	Offset int
}

// TaskFilter narrows a task listing. Nil fields impose no constraint; when
// both are set they combine with AND.
type TaskFilter struct {
	UserID    *int64
	Completed *bool
	Limit     int
	Offset    int
}

type UserRepository interface {
	// Create inserts the user and fills in ID and CreatedAt.
	// Returns apperror.ErrConflict if the email is already taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
	// Update persists name and email. Returns apperror.ErrConflict if the
	// new email belongs to a different user.
	Update(ctx context.Context, user *model.User) error
	// Delete removes the user and every task they own, atomically.
	Delete(ctx context.Context, id int64) error
}

type TaskRepository interface {
	// Create inserts the task and fills in ID, CreatedAt and UpdatedAt.
	// Returns apperror.ErrNotFound if the owning user does not exist.
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	// Update persists title, description and completed, refreshing UpdatedAt.
	Update(ctx context.Context, task *model.Task) error
	// Toggle atomically flips the completed flag and refreshes UpdatedAt,
	// returning the task as stored. Concurrent toggles on the same task are
	// serialized by the storage layer — no lost updates.
	Toggle(ctx context.Context, id int64) (*model.Task, error)
	Delete(ctx context.Context, id int64) error
}
