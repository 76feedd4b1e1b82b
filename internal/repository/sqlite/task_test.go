package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/solardev/solar-api/internal/apperror"
	"github.com/solardev/solar-api/internal/model"
	"github.com/solardev/solar-api/internal/repository"
)

// createTestTask creates a task for the given user and fails the test on error.
func createTestTask(t *testing.T, tasks *TaskStore, title string, userID int64) *model.Task {
	t.Helper()
	task := &model.Task{Title: title, UserID: userID}
	if err := tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestTaskCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db.Users(), "Owner", "owner@x.com")

	task := &model.Task{
		Title:       "Write docs",
		Description: strPtr("the README"),
		UserID:      owner.ID,
	}
	if err := db.Tasks().Create(context.Background(), task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.ID == 0 {
		t.Error("Create() did not set task.ID")
	}
	if task.Completed {
		t.Error("new task should start incomplete")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestTaskCreate_NilDescription(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db.Users(), "Owner", "owner@x.com")
	task := createTestTask(t, db.Tasks(), "no description", owner.ID)

	found, err := db.Tasks().GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Description != nil {
		t.Errorf("Description = %q, want nil", *found.Description)
	}
}

func TestTaskCreate_UnknownOwner(t *testing.T) {
	db := newTestDB(t)

	// No pre-check here — the foreign key constraint itself must reject this
	// and no row may be left behind.
	task := &model.Task{Title: "orphan", UserID: 42}
	err := db.Tasks().Create(context.Background(), task)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Create() error = %v, want ErrNotFound", err)
	}

	all, err := db.Tasks().List(context.Background(), repository.TaskFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("found %d tasks after failed insert, want 0", len(all))
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestTaskGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Tasks().GetByID(context.Background(), 4711)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST / FILTER TESTS
// =========================================================================

func TestTaskList_Filters(t *testing.T) {
	db := newTestDB(t)
	users, tasks := db.Users(), db.Tasks()

	ann := createTestUser(t, users, "Ann", "ann@x.com")
	bob := createTestUser(t, users, "Bob", "bob@x.com")

	annDone := createTestTask(t, tasks, "ann done", ann.ID)
	createTestTask(t, tasks, "ann open", ann.ID)
	createTestTask(t, tasks, "bob open", bob.ID)

	if _, err := tasks.Toggle(context.Background(), annDone.ID); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	ctx := context.Background()

	t.Run("no filters returns everything", func(t *testing.T) {
		got, err := tasks.List(ctx, repository.TaskFilter{Limit: 10})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("len = %d, want 3", len(got))
		}
	})

	t.Run("filter by user", func(t *testing.T) {
		got, err := tasks.List(ctx, repository.TaskFilter{UserID: &ann.ID, Limit: 10})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("filter by completed", func(t *testing.T) {
		got, err := tasks.List(ctx, repository.TaskFilter{Completed: boolPtr(true), Limit: 10})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != annDone.ID {
			t.Errorf("got %d tasks, want exactly the completed one", len(got))
		}
	})

	t.Run("filters are conjunctive", func(t *testing.T) {
		got, err := tasks.List(ctx, repository.TaskFilter{
			UserID:    &bob.ID,
			Completed: boolPtr(true),
			Limit:     10,
		})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		// Bob has no completed tasks — user AND completed matches nothing.
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("ordered by id ascending", func(t *testing.T) {
		got, err := tasks.List(ctx, repository.TaskFilter{Limit: 10})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].ID >= got[i].ID {
				t.Errorf("ids out of order at %d: %d >= %d", i, got[i-1].ID, got[i].ID)
			}
		}
	})
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestTaskUpdate_RefreshesUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db.Users(), "Owner", "owner@x.com")
	task := createTestTask(t, db.Tasks(), "before", owner.ID)
	before := task.UpdatedAt

	time.Sleep(5 * time.Millisecond) // make sure the clock moves

	task.Title = "after"
	task.Description = strPtr("now with description")
	if err := db.Tasks().Update(context.Background(), task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Tasks().GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "after" {
		t.Errorf("Title = %q, want %q", found.Title, "after")
	}
	if found.Description == nil || *found.Description != "now with description" {
		t.Errorf("Description not updated: %v", found.Description)
	}
	if !found.UpdatedAt.After(before) {
		t.Errorf("UpdatedAt not refreshed: %v <= %v", found.UpdatedAt, before)
	}
	if !found.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v", found.CreatedAt)
	}
}

func TestTaskUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.Task{ID: 999, Title: "ghost", UserID: 1}
	err := db.Tasks().Update(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// TOGGLE TESTS
// =========================================================================

func TestTaskToggle_IsItsOwnInverse(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db.Users(), "Owner", "owner@x.com")
	task := createTestTask(t, db.Tasks(), "flip me", owner.ID)

	first, err := db.Tasks().Toggle(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("first Toggle() error = %v", err)
	}
	if !first.Completed {
		t.Error("first toggle should complete the task")
	}
	if !first.UpdatedAt.After(task.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed by toggle: %v <= %v", first.UpdatedAt, task.UpdatedAt)
	}

	time.Sleep(5 * time.Millisecond)

	second, err := db.Tasks().Toggle(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("second Toggle() error = %v", err)
	}
	if second.Completed {
		t.Error("two toggles should restore the original state")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt must strictly increase: %v <= %v", second.UpdatedAt, first.UpdatedAt)
	}
}

func TestTaskToggle_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Tasks().Toggle(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Toggle() error = %v, want ErrNotFound", err)
	}
}

// TestTaskToggle_Concurrent drives many simultaneous toggles at one task and
// checks that none is lost: an even number of toggles must land the task back
// in its initial state, exactly as the same number of sequential toggles
// would. A lost update (two toggles both reading "incomplete" and both
// writing "complete") breaks the parity and fails this test.
//
// Uses a file-backed database so the toggles really race through separate
// pool connections instead of being serialized by the ":memory:" single-
// connection pin.
func TestTaskToggle_Concurrent(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "toggle.db"))
	if err != nil {
		t.Fatalf("opening temp db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	owner := createTestUser(t, db.Users(), "Owner", "owner@x.com")
	task := createTestTask(t, db.Tasks(), "contended", owner.ID)

	const toggles = 8 // even: final state must equal the initial state

	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.Tasks().Toggle(context.Background(), task.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Toggle() error = %v", err)
	}

	final, err := db.Tasks().GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if final.Completed != task.Completed {
		t.Errorf("lost update: %d toggles ended completed=%v, want %v",
			toggles, final.Completed, task.Completed)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestTaskDelete(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db.Users(), "Owner", "owner@x.com")
	task := createTestTask(t, db.Tasks(), "to delete", owner.ID)

	if err := db.Tasks().Delete(context.Background(), task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.Tasks().GetByID(context.Background(), task.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete: error = %v, want ErrNotFound", err)
	}
}

func TestTaskDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Tasks().Delete(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
