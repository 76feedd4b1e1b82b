// Package model defines the data structures used throughout the application.
package model

import "time"

// Task represents a to-do item owned by exactly one User.
//
// WHY Description *string (a pointer)?
// The description column is nullable — a task can legitimately have no
// description at all, which is different from having an empty one. A plain
// string cannot express "absent", so we use a pointer: nil marshals to JSON
// null and scans cleanly from a NULL column.
//
// OWNERSHIP:
// UserID is a foreign key into users(id) with ON DELETE CASCADE, so a task's
// owner reference is valid for as long as the task exists. Deleting the owner
// deletes the task in the same transaction — tasks are never orphaned.
//
// TIMESTAMPS:
// CreatedAt is set once at insert. UpdatedAt is refreshed on every mutation
// (update or toggle), so it strictly increases over a task's lifetime.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
