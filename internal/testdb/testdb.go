// Package testdb provides a shared test database helper for fast,
// realistic testing against an in-memory SQLite editor store.
package testdb

import (
	"context"
	"testing"

	"github.com/helixml/hackai-log/internal/database"
)

// ItemTableSchema mirrors the key/value table of the editor's state database.
const ItemTableSchema = "CREATE TABLE ItemTable (key TEXT UNIQUE ON CONFLICT REPLACE, value BLOB)"

// New creates an in-memory SQLite database with the ItemTable created.
// The database is automatically closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	return WithSchema(t, ItemTableSchema)
}

// NewPlain creates an in-memory SQLite database without any schema.
func NewPlain(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.NewPlain: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// WithSchema creates an in-memory SQLite database and executes the given
// SQL statements to set up a custom schema.
func WithSchema(t *testing.T, statements ...string) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	for _, stmt := range statements {
		if err := db.Session(ctx).Exec(stmt).Error; err != nil {
			t.Fatalf("testdb.WithSchema: %v\nSQL: %s", err, stmt)
		}
	}
	return db
}

// Seed stores raw values under the given keys.
func Seed(t *testing.T, db database.Database, items map[string]string) {
	t.Helper()
	ctx := context.Background()
	for k, v := range items {
		if err := db.Session(ctx).Exec("INSERT INTO ItemTable (key, value) VALUES (?, ?)", k, []byte(v)).Error; err != nil {
			t.Fatalf("testdb.Seed: %v", err)
		}
	}
}
