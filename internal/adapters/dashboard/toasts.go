package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/example/crispr/internal/ports/secondary"
)

// toastBuffer is how many undelivered toasts a slow client may queue.
const toastBuffer = 16

// Toast levels.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a user-visible confirmation pushed to dashboard clients.
type Toast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ToastHub implements secondary.Notifier by fanning toasts out to connected clients.
type ToastHub struct {
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan Toast
	nextID int
}

// NewToastHub creates an empty hub.
func NewToastHub(logger *slog.Logger) *ToastHub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ToastHub{
		logger: logger,
		subs:   make(map[int]chan Toast),
	}
}

// Acknowledge reports a successful action.
func (h *ToastHub) Acknowledge(ctx context.Context, message string) {
	h.publish(ctx, Toast{Level: ToastSuccess, Message: message})
}

// Alert reports a failed action.
func (h *ToastHub) Alert(ctx context.Context, message string) {
	h.publish(ctx, Toast{Level: ToastError, Message: message})
}

// Subscribe returns a channel of toasts and a cancel func.
func (h *ToastHub) Subscribe() (<-chan Toast, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Toast, toastBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *ToastHub) publish(ctx context.Context, t Toast) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logger.DebugContext(ctx, "toast", slog.String("level", t.Level), slog.String("message", t.Message))
	for _, ch := range h.subs {
		select {
		case ch <- t:
		default:
			h.logger.WarnContext(ctx, "dropped toast for slow client")
		}
	}
}

// Ensure ToastHub implements the interface
var _ secondary.Notifier = (*ToastHub)(nil)
