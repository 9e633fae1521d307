// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/crispr/internal/ports/secondary"
)

// DiagnosticRepository implements secondary.DiagnosticRepository with SQLite.
type DiagnosticRepository struct {
	db *sql.DB
}

// NewDiagnosticRepository creates a new SQLite diagnostic repository.
func NewDiagnosticRepository(db *sql.DB) *DiagnosticRepository {
	return &DiagnosticRepository{db: db}
}

const diagnosticColumns = `id, session_id, request_id, operation, kind, subject, message, timestamp`

// Create persists a new diagnostic entry.
func (r *DiagnosticRepository) Create(ctx context.Context, record *secondary.DiagnosticRecord) error {
	var requestID, subject sql.NullString
	if record.RequestID != "" {
		requestID = sql.NullString{String: record.RequestID, Valid: true}
	}
	if record.Subject != "" {
		subject = sql.NullString{String: record.Subject, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO diagnostics (id, session_id, request_id, operation, kind, subject, message) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.SessionID,
		requestID,
		record.Operation,
		record.Kind,
		subject,
		record.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to create diagnostic: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by its ID.
func (r *DiagnosticRepository) GetByID(ctx context.Context, id string) (*secondary.DiagnosticRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+diagnosticColumns+` FROM diagnostics WHERE id = ?`,
		id,
	)

	record, err := scanDiagnostic(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("diagnostic %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostic: %w", err)
	}
	return record, nil
}

// List retrieves entries matching the given filters, newest first.
func (r *DiagnosticRepository) List(ctx context.Context, filters secondary.DiagnosticFilters) ([]*secondary.DiagnosticRecord, error) {
	query := `SELECT ` + diagnosticColumns + ` FROM diagnostics WHERE 1=1`
	args := []any{}

	if filters.Operation != "" {
		query += " AND operation = ?"
		args = append(args, filters.Operation)
	}

	if filters.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filters.Kind)
	}

	if filters.Subject != "" {
		query += " AND subject = ?"
		args = append(args, filters.Subject)
	}

	query += " ORDER BY timestamp DESC, CAST(SUBSTR(id, 4) AS INTEGER) DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnostics: %w", err)
	}
	defer rows.Close()

	var records []*secondary.DiagnosticRecord
	for rows.Next() {
		record, err := scanDiagnostic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetNextID returns the next available entry ID.
func (r *DiagnosticRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("DG-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM diagnostics", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next diagnostic ID: %w", err)
	}

	return fmt.Sprintf("DG-%04d", maxID+1), nil
}

// Clear deletes every entry.
func (r *DiagnosticRepository) Clear(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to clear diagnostics: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiagnostic(row rowScanner) (*secondary.DiagnosticRecord, error) {
	var (
		requestID sql.NullString
		subject   sql.NullString
		timestamp time.Time
	)

	record := &secondary.DiagnosticRecord{}
	err := row.Scan(&record.ID,
		&record.SessionID,
		&requestID,
		&record.Operation,
		&record.Kind,
		&subject,
		&record.Message,
		&timestamp)
	if err != nil {
		return nil, err
	}

	record.RequestID = requestID.String
	record.Subject = subject.String
	record.Timestamp = timestamp.Format(time.RFC3339)
	return record, nil
}

// Ensure DiagnosticRepository implements the interface
var _ secondary.DiagnosticRepository = (*DiagnosticRepository)(nil)
