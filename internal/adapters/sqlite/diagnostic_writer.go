package sqlite

import (
	"context"
	"log/slog"
	"sync"

	"github.com/example/crispr/internal/ctxutil"
	"github.com/example/crispr/internal/ports/secondary"
)

// DiagnosticWriterAdapter implements secondary.DiagnosticWriter.
// Each failure goes to the structured operator log and to the session journal.
type DiagnosticWriterAdapter struct {
	repo   secondary.DiagnosticRepository
	logger *slog.Logger

	// GetNextID + Create must not interleave between concurrent writers.
	mu sync.Mutex
}

// NewDiagnosticWriterAdapter creates a new DiagnosticWriterAdapter.
// A nil logger discards the operator log.
func NewDiagnosticWriterAdapter(repo secondary.DiagnosticRepository, logger *slog.Logger) *DiagnosticWriterAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DiagnosticWriterAdapter{
		repo:   repo,
		logger: logger,
	}
}

// Record writes one failure.
func (w *DiagnosticWriterAdapter) Record(ctx context.Context, operation, kind, subject string, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}

	sessionID := ctxutil.SessionFromContext(ctx)
	requestID := ctxutil.RequestFromContext(ctx)

	w.logger.WarnContext(ctx, "operation failed",
		slog.String("operation", operation),
		slog.String("kind", kind),
		slog.String("subject", subject),
		slog.String("session_id", sessionID),
		slog.String("request_id", requestID),
		slog.String("error", message),
	)

	w.mu.Lock()
	defer w.mu.Unlock()

	id, err := w.repo.GetNextID(ctx)
	if err != nil {
		return err
	}

	return w.repo.Create(ctx, &secondary.DiagnosticRecord{
		ID:        id,
		SessionID: sessionID,
		RequestID: requestID,
		Operation: operation,
		Kind:      kind,
		Subject:   subject,
		Message:   message,
	})
}

// Ensure DiagnosticWriterAdapter implements the interface
var _ secondary.DiagnosticWriter = (*DiagnosticWriterAdapter)(nil)
