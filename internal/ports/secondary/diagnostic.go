package secondary

import "context"

// DiagnosticWriter defines the interface for reporting caught failures to the operator.
// Implementations extract session and request IDs from context.
type DiagnosticWriter interface {
	// Record writes one failure. subject names what the operation acted on
	// (a gene or candidate ID) and may be empty.
	Record(ctx context.Context, operation, kind, subject string, cause error) error
}

// DiagnosticRepository defines the secondary port for the session diagnostic journal.
// Entries are immutable - no Update operations, but the journal can be cleared.
type DiagnosticRepository interface {
	// Create persists a new diagnostic entry.
	Create(ctx context.Context, record *DiagnosticRecord) error

	// GetByID retrieves an entry by its ID.
	GetByID(ctx context.Context, id string) (*DiagnosticRecord, error)

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters DiagnosticFilters) ([]*DiagnosticRecord, error)

	// GetNextID returns the next available entry ID.
	GetNextID(ctx context.Context) (string, error)

	// Clear deletes every entry and returns how many were deleted.
	Clear(ctx context.Context) (int, error)
}

// DiagnosticRecord represents a diagnostic entry as stored in the journal.
type DiagnosticRecord struct {
	ID        string
	SessionID string
	RequestID string // Empty string means null
	Operation string
	Kind      string
	Subject   string // Empty string means null
	Message   string
	Timestamp string
}

// DiagnosticFilters contains filter options for querying the journal.
type DiagnosticFilters struct {
	Operation string
	Kind      string
	Subject   string
	Limit     int
}
