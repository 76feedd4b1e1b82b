package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/solardev/solar-api/internal/apperror"
	"github.com/solardev/solar-api/internal/model"
)

// newFileDB opens a file-backed database so the pool runs with multiple real
// connections, unlike the pinned ":memory:" setup.
func newFileDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "pragmas.db"))
	if err != nil {
		t.Fatalf("failed to create file-backed test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestPragmasOnEveryConnection pins two pool connections at once and checks
// that each has foreign keys and the busy timeout configured. Both pragmas
// are per-connection in SQLite, so they must arrive via the DSN — a plain
// Exec after open would configure only whichever connection ran it, leaving
// the rest of the pool with foreign_keys=0 and busy_timeout=0.
func TestPragmasOnEveryConnection(t *testing.T) {
	db := newFileDB(t)
	ctx := context.Background()

	conn1, err := db.conn.Conn(ctx)
	if err != nil {
		t.Fatalf("pinning first connection: %v", err)
	}
	defer conn1.Close()

	conn2, err := db.conn.Conn(ctx)
	if err != nil {
		t.Fatalf("pinning second connection: %v", err)
	}
	defer conn2.Close()

	for i, conn := range []*sql.Conn{conn1, conn2} {
		var fk int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d: reading foreign_keys: %v", i+1, err)
		}
		if fk != 1 {
			t.Errorf("conn %d: foreign_keys = %d, want 1", i+1, fk)
		}

		var busy int
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
			t.Fatalf("conn %d: reading busy_timeout: %v", i+1, err)
		}
		if busy != 5000 {
			t.Errorf("conn %d: busy_timeout = %d, want 5000", i+1, busy)
		}
	}
}

// TestForeignKeysEnforcedOnFileDB repeats the orphan-task check against a
// file-backed pool: whichever connection serves the insert must reject an
// unknown owner and leave no row behind.
func TestForeignKeysEnforcedOnFileDB(t *testing.T) {
	db := newFileDB(t)
	ctx := context.Background()

	task := &model.Task{Title: "Orphan", UserID: 4242}
	err := db.Tasks().Create(ctx, task)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Create() with unknown owner: error = %v, want ErrNotFound", err)
	}

	var count int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		t.Fatalf("counting tasks: %v", err)
	}
	if count != 0 {
		t.Errorf("tasks table has %d rows after rejected insert, want 0", count)
	}
}
