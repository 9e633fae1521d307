package app

import (
	"context"
	"fmt"

	"github.com/example/crispr/internal/ports/primary"
	"github.com/example/crispr/internal/ports/secondary"
)

// DiagnosticServiceImpl implements the DiagnosticService interface.
type DiagnosticServiceImpl struct {
	repo secondary.DiagnosticRepository
}

// NewDiagnosticService creates a new DiagnosticService with injected dependencies.
func NewDiagnosticService(repo secondary.DiagnosticRepository) *DiagnosticServiceImpl {
	return &DiagnosticServiceImpl{
		repo: repo,
	}
}

// ListDiagnostics retrieves diagnostic entries matching the given filters.
func (s *DiagnosticServiceImpl) ListDiagnostics(ctx context.Context, filters primary.DiagnosticFilters) ([]*primary.DiagnosticEntry, error) {
	records, err := s.repo.List(ctx, secondary.DiagnosticFilters{
		Operation: filters.Operation,
		Kind:      filters.Kind,
		Subject:   filters.Subject,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnostics: %w", err)
	}

	entries := make([]*primary.DiagnosticEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToEntry(r)
	}
	return entries, nil
}

// GetDiagnostic retrieves a single entry by ID.
func (s *DiagnosticServiceImpl) GetDiagnostic(ctx context.Context, id string) (*primary.DiagnosticEntry, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recordToEntry(record), nil
}

// ClearDiagnostics removes all entries.
func (s *DiagnosticServiceImpl) ClearDiagnostics(ctx context.Context) (int, error) {
	return s.repo.Clear(ctx)
}

// Helper methods

func (s *DiagnosticServiceImpl) recordToEntry(r *secondary.DiagnosticRecord) *primary.DiagnosticEntry {
	return &primary.DiagnosticEntry{
		ID:        r.ID,
		SessionID: r.SessionID,
		RequestID: r.RequestID,
		Operation: r.Operation,
		Kind:      r.Kind,
		Subject:   r.Subject,
		Message:   r.Message,
		Timestamp: r.Timestamp,
	}
}

// Ensure DiagnosticServiceImpl implements the interface
var _ primary.DiagnosticService = (*DiagnosticServiceImpl)(nil)
