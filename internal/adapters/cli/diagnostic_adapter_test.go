package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/crispr/internal/ports/primary"
)

// mockDiagnosticService implements primary.DiagnosticService for testing
type mockDiagnosticService struct {
	entries     []*primary.DiagnosticEntry
	lastFilters primary.DiagnosticFilters
}

func (m *mockDiagnosticService) ListDiagnostics(ctx context.Context, filters primary.DiagnosticFilters) ([]*primary.DiagnosticEntry, error) {
	m.lastFilters = filters
	return m.entries, nil
}

func (m *mockDiagnosticService) GetDiagnostic(ctx context.Context, id string) (*primary.DiagnosticEntry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockDiagnosticService) ClearDiagnostics(ctx context.Context) (int, error) {
	n := len(m.entries)
	m.entries = nil
	return n, nil
}

func TestDiagnosticAdapter_List(t *testing.T) {
	mock := &mockDiagnosticService{entries: []*primary.DiagnosticEntry{
		{ID: "DG-0002", Timestamp: "2026-01-01 10:00:01", Operation: "design_guides", Kind: "stale", Subject: "BRCA1", Message: "discarded response"},
		{ID: "DG-0001", Timestamp: "2026-01-01 10:00:00", Operation: "fetch_sequence", Kind: "transport", Subject: "BRCA1", Message: "connection refused"},
	}}

	var buf bytes.Buffer
	adapter := NewDiagnosticAdapter(mock, &buf)

	if err := adapter.List(context.Background(), primary.DiagnosticFilters{Kind: "stale"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.lastFilters.Kind != "stale" {
		t.Errorf("expected filters passed through, got %+v", mock.lastFilters)
	}

	output := buf.String()
	if !strings.Contains(output, "DG-0002") || !strings.Contains(output, "connection refused") {
		t.Errorf("unexpected output: %q", output)
	}
	if strings.Index(output, "DG-0002") > strings.Index(output, "DG-0001") {
		t.Error("expected service order preserved")
	}
}

func TestDiagnosticAdapter_ListEmpty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewDiagnosticAdapter(&mockDiagnosticService{}, &buf)

	if err := adapter.List(context.Background(), primary.DiagnosticFilters{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No diagnostics") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDiagnosticAdapter_ShowAndClear(t *testing.T) {
	mock := &mockDiagnosticService{entries: []*primary.DiagnosticEntry{
		{ID: "DG-0001", Operation: "submit_feedback", Kind: "service", Subject: "g1", SessionID: "s1", RequestID: "r1", Message: "500"},
	}}

	var buf bytes.Buffer
	adapter := NewDiagnosticAdapter(mock, &buf)

	if err := adapter.Show(context.Background(), "DG-0001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Request:    r1") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	if err := adapter.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Cleared 1 diagnostic(s)") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
