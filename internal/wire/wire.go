// Package wire provides dependency injection for the crispr application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	cliadapter "github.com/example/crispr/internal/adapters/cli"
	"github.com/example/crispr/internal/adapters/dashboard"
	"github.com/example/crispr/internal/adapters/designapi"
	"github.com/example/crispr/internal/adapters/sqlite"
	"github.com/example/crispr/internal/app"
	"github.com/example/crispr/internal/config"
	"github.com/example/crispr/internal/db"
	"github.com/example/crispr/internal/ports/primary"
	"github.com/example/crispr/internal/ports/secondary"
)

var (
	settings = viper.New()
	cfg      *config.Config
	logger   *slog.Logger
	notifier secondary.Notifier

	database          *sql.DB
	sessionService    *app.DesignSessionServiceImpl
	diagnosticService primary.DiagnosticService
	toastHub          *dashboard.ToastHub
	once              sync.Once
	toastOnce         sync.Once
)

// Settings returns the viper instance that flags are bound to.
func Settings() *viper.Viper {
	return settings
}

// LoadConfig reads configuration from path and sets up logging and color output.
// Must be called before any service is requested.
func LoadConfig(path string) error {
	loaded, err := config.Load(settings, path)
	if err != nil {
		return err
	}
	cfg = loaded

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if !cfg.Output.Color {
		color.NoColor = true
	}
	return nil
}

// Config returns the loaded configuration.
func Config() *config.Config {
	ensureConfig()
	return cfg
}

// Logger returns the operator logger.
func Logger() *slog.Logger {
	ensureConfig()
	return logger
}

func ensureConfig() {
	if cfg != nil {
		return
	}
	if err := LoadConfig(""); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
}

// UseNotifier selects where feedback confirmations go.
// Must be called before the session service is first requested; the default
// prints toasts to stderr.
func UseNotifier(n secondary.Notifier) {
	notifier = n
}

// SessionService returns the singleton DesignSessionService instance.
func SessionService() primary.DesignSessionService {
	once.Do(initServices)
	return sessionService
}

// DiagnosticService returns the singleton DiagnosticService instance.
func DiagnosticService() primary.DiagnosticService {
	once.Do(initServices)
	return diagnosticService
}

// SessionID returns the identifier of the process-wide session.
func SessionID() string {
	once.Do(initServices)
	return sessionService.SessionID()
}

// Toasts returns the singleton hub that pushes confirmations to dashboard clients.
func Toasts() *dashboard.ToastHub {
	toastOnce.Do(func() {
		toastHub = dashboard.NewToastHub(Logger())
	})
	return toastHub
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	ensureConfig()

	// The journal lives in memory and ends with the process.
	var err error
	database, err = db.OpenSession()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create adapters (secondary ports)
	diagnosticRepo := sqlite.NewDiagnosticRepository(database)
	diagnosticWriter := sqlite.NewDiagnosticWriterAdapter(diagnosticRepo, logger)
	client := designapi.NewClient(cfg.Service.BaseURL, cfg.Service.Timeout)
	if notifier == nil {
		notifier = cliadapter.NewConsoleNotifier(os.Stderr)
	}

	// Create services (primary ports implementation)
	sessionService = app.NewDesignSessionService(client, diagnosticWriter, notifier, logger)
	diagnosticService = app.NewDiagnosticService(diagnosticRepo)
}

// SessionAdapter returns a new SessionAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func SessionAdapter() *cliadapter.SessionAdapter {
	return SessionAdapterWithOutput(os.Stdout)
}

// SessionAdapterWithOutput returns a new SessionAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func SessionAdapterWithOutput(out io.Writer) *cliadapter.SessionAdapter {
	once.Do(initServices)
	return cliadapter.NewSessionAdapter(sessionService, out)
}

// DiagnosticAdapter returns a new DiagnosticAdapter writing to stdout.
func DiagnosticAdapter() *cliadapter.DiagnosticAdapter {
	return DiagnosticAdapterWithOutput(os.Stdout)
}

// DiagnosticAdapterWithOutput returns a new DiagnosticAdapter writing to the given output.
func DiagnosticAdapterWithOutput(out io.Writer) *cliadapter.DiagnosticAdapter {
	once.Do(initServices)
	return cliadapter.NewDiagnosticAdapter(diagnosticService, out)
}

// DashboardServer returns a dashboard bound to the session singletons.
func DashboardServer() *dashboard.Server {
	once.Do(initServices)
	return dashboard.NewServer(sessionService, diagnosticService, Toasts(), logger)
}

// Close releases the session database.
func Close() {
	if database != nil {
		database.Close()
	}
}
