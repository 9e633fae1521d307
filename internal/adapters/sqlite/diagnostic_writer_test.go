package sqlite_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/crispr/internal/adapters/sqlite"
	"github.com/example/crispr/internal/ctxutil"
	"github.com/example/crispr/internal/ports/secondary"
)

func TestDiagnosticWriter_Record(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDiagnosticRepository(db)

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	writer := sqlite.NewDiagnosticWriterAdapter(repo, logger)

	ctx := ctxutil.WithSessionID(context.Background(), "SESSION-1")
	ctx, requestID := ctxutil.WithRequestID(ctx)

	if err := writer.Record(ctx, "design_guides", "service", "P50607", errors.New("service returned 500")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := writer.Record(ctx, "design_guides", "stale", "P50607", errors.New("superseded")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := repo.List(context.Background(), secondary.DiagnosticFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first, err := repo.GetByID(context.Background(), "DG-0001")
	if err != nil {
		t.Fatal(err)
	}
	if first.SessionID != "SESSION-1" || first.RequestID != requestID {
		t.Errorf("context ids not recorded: %+v", first)
	}
	if first.Message != "service returned 500" {
		t.Errorf("Message = %q", first.Message)
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "operation=design_guides") || !strings.Contains(logged, "kind=service") {
		t.Errorf("operator log missing fields: %s", logged)
	}
}
