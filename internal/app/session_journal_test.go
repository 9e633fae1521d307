package app_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/crispr/internal/adapters/designapi"
	"github.com/example/crispr/internal/adapters/sqlite"
	"github.com/example/crispr/internal/adapters/stubservice"
	"github.com/example/crispr/internal/app"
	"github.com/example/crispr/internal/db"
	"github.com/example/crispr/internal/ports/primary"
)

type silentNotifier struct{}

func (silentNotifier) Acknowledge(ctx context.Context, message string) {}
func (silentNotifier) Alert(ctx context.Context, message string)       {}

func TestSessionService_CanceledRequestReachesJournal(t *testing.T) {
	stub := httptest.NewServer(stubservice.New(map[string]string{"BRCA1": "ACGTACGTACGTACGTACGTAGGTTTT"}, nil).Router())
	defer stub.Close()

	conn, err := db.OpenSession()
	if err != nil {
		t.Fatalf("failed to open session db: %v", err)
	}
	defer conn.Close()

	repo := sqlite.NewDiagnosticRepository(conn)
	service := app.NewDesignSessionService(
		designapi.NewClient(stub.URL, 5*time.Second),
		sqlite.NewDiagnosticWriterAdapter(repo, nil),
		silentNotifier{},
		nil,
	)
	diagnostics := app.NewDiagnosticService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := service.FetchSequence(ctx, "BRCA1"); err == nil {
		t.Fatal("expected canceled fetch to fail")
	}
	if err := service.DesignGuides(ctx, "BRCA1"); err != nil {
		t.Fatalf("design without a sequence should be a no-op, got %v", err)
	}

	entries, err := diagnostics.ListDiagnostics(context.Background(), primary.DiagnosticFilters{})
	if err != nil {
		t.Fatalf("ListDiagnostics failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	if entries[0].Operation != app.OpFetchSequence || entries[0].Kind != "transport" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}
