// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup goes through setupTestDB(), which uses db.InitSchema().
// Do not declare tables in test files.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/crispr/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if err := db.InitSchema(testDB); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedDiagnostic inserts a diagnostic with an explicit timestamp.
func seedDiagnostic(t *testing.T, db *sql.DB, id, operation, kind, subject, timestamp string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO diagnostics (id, session_id, operation, kind, subject, message, timestamp) VALUES (?, 'SESSION', ?, ?, ?, 'seeded', ?)",
		id, operation, kind, subject, timestamp,
	)
	if err != nil {
		t.Fatalf("failed to seed diagnostic: %v", err)
	}
}
