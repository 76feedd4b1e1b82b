package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/solardev/solar-api/internal/apperror"
	"github.com/solardev/solar-api/internal/model"
	"github.com/solardev/solar-api/internal/repository"
)

// Compile-time check that *UserStore implements repository.UserRepository.
// If a method is missing or has the wrong signature, this line fails the
// build instead of some distant call site.
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore implements repository.UserRepository on the shared DB.
type UserStore struct {
	db *DB
}

// Create inserts a new user. The UNIQUE constraint on email is the source of
// truth for uniqueness — a violation is translated to a Conflict here rather
// than pre-checked with a racy SELECT.
//
// The pointer receiver matters: on success the caller's struct is filled in
// with the database-assigned ID and the creation timestamp.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()

	result, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO users (name, email, created_at) VALUES (?, ?, ?)`,
		user.Name,
		user.Email,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email", "email already registered")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

// GetByID retrieves a single user. sql.ErrNoRows is not a real error — it
// just means no matching row — so it becomes the domain's NotFound.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &user, nil
}

// List retrieves users ordered by id ascending with LIMIT/OFFSET pagination.
// Limits are clamped by the service layer; this method trusts its inputs.
func (s *UserStore) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, name, email, created_at
		 FROM users
		 ORDER BY id ASC
		 LIMIT ? OFFSET ?`,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	// Rows holds a pool connection until closed — leaking these eventually
	// starves the pool and hangs the server.
	defer rows.Close()

	users := make([]model.User, 0, opts.Limit)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// Update persists name and email for an existing user. RowsAffected tells us
// whether the row existed at all — cheaper than SELECT-then-UPDATE.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ? WHERE id = ?`,
		user.Name,
		user.Email,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email", "email already in use")
		}
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// Delete removes a user and every task they own inside one transaction.
// The ON DELETE CASCADE on tasks.user_id would cover the tasks on its own;
// deleting them explicitly in the same transaction keeps the cascade visible
// in code and independent of the foreign_keys pragma being set.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	return s.db.execTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tasks WHERE user_id = ?`, id,
		); err != nil {
			return fmt.Errorf("sqlite: deleting tasks for user %d: %w", id, err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		if affected == 0 {
			// Rolls back the task deletion too — the whole operation is a no-op.
			return apperror.NotFound("user", id)
		}
		return nil
	})
}
