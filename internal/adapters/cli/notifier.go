package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/example/crispr/internal/ports/secondary"
)

// ConsoleNotifier prints acknowledgments and alerts as one-line toasts.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier creates a notifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

// Acknowledge reports a successful action.
func (n *ConsoleNotifier) Acknowledge(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), message)
}

// Alert reports a failed action.
func (n *ConsoleNotifier) Alert(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", color.New(color.FgRed).Sprint("✗"), message)
}

// Ensure ConsoleNotifier implements the interface
var _ secondary.Notifier = (*ConsoleNotifier)(nil)
