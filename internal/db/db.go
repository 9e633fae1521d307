// Package db opens the session journal database.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// OpenSession opens a private in-memory database and applies the schema.
// Nothing is persisted: the data is gone when the returned handle is closed.
func OpenSession() (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to :memory: would be a separate database.
	conn.SetMaxOpenConns(1)

	if err := InitSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// InitSchema applies the schema to conn.
func InitSchema(conn *sql.DB) error {
	if _, err := conn.Exec(GetSchemaSQL()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
