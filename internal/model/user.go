// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered user account.
//
// The `json:"..."` tags control how the struct is serialized by encoding/json.
// We use snake_case field names (created_at, not createdAt) because that is
// the wire contract the frontend already speaks.
//
// WHY ID int64?
// The database assigns ids from an AUTOINCREMENT integer column, so ids are
// monotonically increasing and never reused. int64 matches what
// sql.Result.LastInsertId() returns, so no conversion is needed anywhere.
//
// CreatedAt is set once at insert time and is immutable afterwards — there is
// no updated_at on users because name/email edits carry no audit requirement
// in this app.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // globally unique, matched exactly (case-sensitive)
	CreatedAt time.Time `json:"created_at"`
}
