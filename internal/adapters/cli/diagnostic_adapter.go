package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/crispr/internal/ports/primary"
)

// DiagnosticAdapter renders the session diagnostic journal.
type DiagnosticAdapter struct {
	service primary.DiagnosticService
	out     io.Writer
}

// NewDiagnosticAdapter creates a new DiagnosticAdapter with the given service.
func NewDiagnosticAdapter(service primary.DiagnosticService, out io.Writer) *DiagnosticAdapter {
	return &DiagnosticAdapter{
		service: service,
		out:     out,
	}
}

// List prints diagnostic entries, newest first.
func (a *DiagnosticAdapter) List(ctx context.Context, filters primary.DiagnosticFilters) error {
	entries, err := a.service.ListDiagnostics(ctx, filters)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No diagnostics")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-8s %-20s %-16s %-10s %-12s %s\n", "ID", "TIME", "OPERATION", "KIND", "SUBJECT", "MESSAGE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-8s %-20s %-16s %s %-12s %s\n",
			e.ID, e.Timestamp, e.Operation, kindColor(e.Kind).Sprintf("%-10s", e.Kind), e.Subject, e.Message)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show prints a single entry.
func (a *DiagnosticAdapter) Show(ctx context.Context, id string) error {
	e, err := a.service.GetDiagnostic(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nDiagnostic: %s\n", e.ID)
	fmt.Fprintf(a.out, "Time:       %s\n", e.Timestamp)
	fmt.Fprintf(a.out, "Operation:  %s\n", e.Operation)
	fmt.Fprintf(a.out, "Kind:       %s\n", kindColor(e.Kind).Sprint(e.Kind))
	if e.Subject != "" {
		fmt.Fprintf(a.out, "Subject:    %s\n", e.Subject)
	}
	fmt.Fprintf(a.out, "Session:    %s\n", e.SessionID)
	if e.RequestID != "" {
		fmt.Fprintf(a.out, "Request:    %s\n", e.RequestID)
	}
	fmt.Fprintf(a.out, "Message:    %s\n\n", e.Message)
	return nil
}

// Clear empties the journal.
func (a *DiagnosticAdapter) Clear(ctx context.Context) error {
	n, err := a.service.ClearDiagnostics(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear diagnostics: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Cleared %d diagnostic(s)\n", n)
	return nil
}

func kindColor(kind string) *color.Color {
	switch kind {
	case "stale":
		return color.New(color.FgYellow)
	case "input":
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgRed)
	}
}
