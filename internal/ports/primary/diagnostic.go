package primary

import "context"

// DiagnosticService defines the primary port for the operator diagnostic channel.
type DiagnosticService interface {
	// ListDiagnostics retrieves diagnostic entries matching the given filters, newest first.
	ListDiagnostics(ctx context.Context, filters DiagnosticFilters) ([]*DiagnosticEntry, error)

	// GetDiagnostic retrieves a single entry by ID.
	GetDiagnostic(ctx context.Context, id string) (*DiagnosticEntry, error)

	// ClearDiagnostics removes all entries and returns how many were removed.
	ClearDiagnostics(ctx context.Context) (int, error)
}

// DiagnosticEntry represents a caught failure at the port boundary.
type DiagnosticEntry struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	RequestID string `json:"request_id,omitempty"`
	Operation string `json:"operation"` // 'fetch_sequence', 'design_guides', 'submit_feedback', ...
	Kind      string `json:"kind"`      // 'transport', 'service', 'contract', 'stale', ...
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// DiagnosticFilters contains filter options for querying diagnostics.
type DiagnosticFilters struct {
	Operation string
	Kind      string
	Subject   string
	Limit     int
}
