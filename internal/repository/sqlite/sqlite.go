// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage, which
// is exactly right for a demo backend, and ":memory:" gives tests a fresh
// isolated database for free.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init(). We never reference its symbols directly.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. Repository implementations hang off it
// via the Users() and Tasks() accessors so each entity's SQL lives in its own
// file while sharing one pool, one schema, and one transaction helper.
type DB struct {
	conn *sql.DB
}

// dsn builds the driver DSN for dbPath.
//
// PER-CONNECTION PRAGMAS:
// foreign_keys and busy_timeout are per-connection settings in SQLite, and
// database/sql is a pool — a pragma executed with Exec configures only the
// one connection that happens to run it, leaving the rest of the pool with
// foreign keys OFF and no busy timeout. Putting the pragmas in the DSN makes
// the driver apply them on every connection it opens.
//
//   - journal_mode(WAL): concurrent reads while a write is in progress.
//     Persists in the database file, but harmless to re-apply per connection.
//   - foreign_keys(1): SQLite ships with foreign keys OFF for backwards
//     compatibility. We need them ON: tasks.user_id references users(id)
//     with cascade delete.
//   - busy_timeout(5000): SQLite allows one writer at a time. Instead of
//     failing immediately with SQLITE_BUSY, a second writer waits up to this
//     many milliseconds for the lock — concurrent mutations queue rather
//     than error.
func dsn(dbPath string) string {
	const pragmas = "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dbPath == ":memory:" {
		return "file::memory:?" + pragmas
	}
	return "file:" + dbPath + "?" + pragmas
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for a throwaway in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only creates the pool manager; Ping forces a real connection
	// so a bad path surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// An in-memory SQLite database is private to the connection that opened
	// it. database/sql is a pool, so with more than one connection each would
	// see its own empty database. Pinning the pool to a single connection
	// keeps ":memory:" coherent; writes then serialize at the pool.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New().
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserStore {
	return &UserStore{db: db}
}

// Tasks returns the task repository backed by this database.
func (db *DB) Tasks() *TaskStore {
	return &TaskStore{db: db}
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent, so it is safe to run on every start. For this scale, embedded
// DDL beats a migration tool; golang-migrate is the upgrade path if the
// schema ever starts evolving.
//
// SCHEMA NOTES:
//   - INTEGER PRIMARY KEY AUTOINCREMENT: ids are assigned by SQLite,
//     monotonically increasing, and never reused — even after deletes.
//   - users.email is UNIQUE: the database is the final arbiter of email
//     uniqueness, whatever races happen above it.
//   - tasks.user_id has ON DELETE CASCADE: the schema itself guarantees a
//     task's owner reference stays valid for the task's whole lifetime.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT,
			completed   BOOLEAN NOT NULL DEFAULT 0,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);
	`)
	if err != nil {
		return fmt.Errorf("creating tasks table: %w", err)
	}

	return nil
}

// execTx runs fn inside a transaction: commit on success, rollback on error
// or panic. Every multi-statement mutation in this package goes through here
// so partial writes are never visible to other operations.
func (db *DB) execTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p) // re-panic after rollback
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				err = fmt.Errorf("sqlite: rollback failed (%v) after: %w", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err // rollback handled by the defer
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// The modernc driver reports constraint failures only through the error
// text, so classification is by substring match. Both helpers below are the
// boundary where raw driver errors become domain errors.

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
