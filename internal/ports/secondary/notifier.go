package secondary

import "context"

// Notifier defines the interface for user-visible confirmations.
// Calls must not block the caller on user interaction.
type Notifier interface {
	// Acknowledge reports a successful action.
	Acknowledge(ctx context.Context, message string)

	// Alert reports a failed action.
	Alert(ctx context.Context, message string)
}
