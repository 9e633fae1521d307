package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/config"
	"github.com/example/crispr/internal/wire"
)

// shutdownGrace bounds how long in-flight requests may take after a signal.
const shutdownGrace = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the design dashboard",
	Long: `Hold one design session and serve it to a browser: a JSON API under /api,
a live WebSocket stream at /api/ws and a minimal page at /.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Feedback toasts go to dashboard clients instead of stderr.
		wire.UseNotifier(wire.Toasts())

		addr := wire.Config().Dashboard.Listen
		srv := &http.Server{
			Addr:              addr,
			Handler:           wire.DashboardServer().Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		fmt.Printf("✓ Dashboard for session %s on http://%s\n", wire.SessionID(), addr)
		return listenUntilSignal(srv, wire.Logger())
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Address to serve the dashboard on")
	_ = wire.Settings().BindPFlag(config.KeyDashboardListen, serveCmd.Flags().Lookup("listen"))
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}

// listenUntilSignal serves until SIGINT/SIGTERM, then shuts down gracefully.
func listenUntilSignal(srv *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.String("addr", srv.Addr))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
