package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/solardev/solar-api/internal/apperror"
	"github.com/solardev/solar-api/internal/model"
	"github.com/solardev/solar-api/internal/repository"
)

// compile-time check that *TaskStore implements repository.TaskRepository
var _ repository.TaskRepository = (*TaskStore)(nil)

// TaskStore implements repository.TaskRepository on the shared DB.
type TaskStore struct {
	db *DB
}

const taskColumns = `id, title, description, completed, user_id, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows, so one scan helper
// serves single-row and multi-row queries.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner, t *model.Task) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Description, // *string: scans NULL as nil
		&t.Completed,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

// Create inserts a new task for an existing user. The foreign key on user_id
// is the backstop: if the owner vanished between the service's existence
// check and this insert, the constraint fires and we report the owner as
// not found rather than leaving an orphaned row.
func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()

	result, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO tasks (title, description, completed, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		task.Title,
		task.Description,
		task.Completed,
		task.UserID,
		now,
		now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", task.UserID)
		}
		return fmt.Errorf("sqlite: creating task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new task id: %w", err)
	}

	task.ID = id
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

// GetByID retrieves a single task by its id.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	err := scanTask(s.db.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
	), &task)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %d: %w", id, err)
	}

	return &task, nil
}

// List retrieves tasks matching the filter, ordered by id ascending.
//
// The WHERE clause is assembled from the set filter fields; both filters set
// means both conditions (AND). Only the placeholders vary — the values always
// go through query arguments, never string interpolation.
func (s *TaskStore) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`

	var conds []string
	var args []any
	if filter.UserID != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Completed != nil {
		conds = append(conds, "completed = ?")
		args = append(args, *filter.Completed)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, filter.Limit)
	for rows.Next() {
		var t model.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// Update persists title, description and completed, refreshing updated_at.
// id, user_id and created_at are immutable and never touched here.
func (s *TaskStore) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now().UTC()

	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, completed = ?, updated_at = ?
		 WHERE id = ?`,
		task.Title,
		task.Description,
		task.Completed,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %d: %w", task.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("task", task.ID)
	}

	return nil
}

// Toggle atomically flips the completed flag and refreshes updated_at.
//
// LOST-UPDATE PREVENTION:
// The flip is a single UPDATE with `completed = NOT completed` — the read
// and the write happen inside one statement under SQLite's write lock, so
// two concurrent toggles can never both read the old value and both write
// the same new one. Each toggle observes all previously committed toggles.
// The surrounding transaction makes the flip and the readback of the stored
// row one atomic unit.
func (s *TaskStore) Toggle(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	err := s.db.execTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE tasks SET completed = NOT completed, updated_at = ? WHERE id = ?`,
			time.Now().UTC(),
			id,
		)
		if err != nil {
			return fmt.Errorf("sqlite: toggling task %d: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		if affected == 0 {
			return apperror.NotFound("task", id)
		}

		// Read the row back within the same transaction so the returned
		// task is exactly what this toggle committed.
		if err := scanTask(tx.QueryRowContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
		), &task); err != nil {
			return fmt.Errorf("sqlite: reading toggled task %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Delete removes a task by its id.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("task", id)
	}

	return nil
}
