// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and small structs, never *http.Request, and
// return domain errors from internal/apperror, never status codes. They
// depend on the repository interfaces, not on the SQLite package — tests
// substitute in-memory mocks, and the storage backend can change without
// touching this package.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/solardev/solar-api/internal/apperror"
	"github.com/solardev/solar-api/internal/model"
	"github.com/solardev/solar-api/internal/repository"
)

// Validation and pagination constants. The default page size of 100 is the
// contract the frontend was written against.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254 // RFC 5321 path limit

	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// UserUpdate is a partial update: nil fields are left unchanged.
// JSON null and an omitted field both decode to nil, so the two are
// deliberately indistinguishable — "set email to nothing" is not a thing.
type UserUpdate struct {
	Name  *string
	Email *string
}

// UserService handles business logic for user accounts.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// validateEmail enforces a plausible RFC 5322 address. Matching is exact and
// case-sensitive throughout the app — "Ann@x.com" and "ann@x.com" are two
// different addresses as far as uniqueness is concerned.
func validateEmail(email string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return apperror.ValidationFailed("email",
			fmt.Sprintf("email must be %d characters or less", MaxEmailLength))
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		// The second check rejects display-name forms like "Ann <ann@x.com>"
		// which mail.ParseAddress happily accepts.
		return apperror.ValidationFailed("email", "invalid email address")
	}
	return nil
}

// clampPage normalises skip/limit into safe LIMIT/OFFSET values.
func clampPage(skip, limit int) (offset, clamped int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}

// Create validates and stores a new user.
// Returns apperror.ErrConflict if the email is already registered.
func (s *UserService) Create(ctx context.Context, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user := &model.User{Name: name, Email: email}
	if err := s.repo.Create(ctx, user); err != nil {
		// Conflict is a normal client error, not a server failure — the
		// caller gets it as-is and nothing alarming hits the log.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("id", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Get retrieves a user by id. Returns apperror.ErrNotFound if absent.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns users ordered by id ascending, paginated by skip/limit.
// No total count is returned — the caller detects the last page by a short
// read. A known limitation of offset pagination, accepted for this app.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	offset, clamped := clampPage(skip, limit)

	users, err := s.repo.List(ctx, repository.ListOptions{Limit: clamped, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Update applies a partial update to a user: only non-nil fields change.
// A changed email is re-validated and re-checked for uniqueness.
func (s *UserService) Update(ctx context.Context, id int64, upd UserUpdate) (*model.User, error) {
	// Fetch-then-update: confirms existence first, so "not found" and
	// "conflict" are cleanly distinguishable failure modes.
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "name cannot be empty")
		}
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("name must be %d characters or less", MaxNameLength))
		}
		user.Name = name
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return nil, err
		}
		user.Email = *upd.Email
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to update user",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user updated", slog.Int64("id", user.ID))
	return user, nil
}

// Delete removes a user and all tasks they own, atomically.
// Returns apperror.ErrNotFound if the user does not exist.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.Int64("id", id))
	return nil
}
