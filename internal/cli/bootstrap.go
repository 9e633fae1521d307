// Package cli provides CLI commands for the crispr application.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/config"
	"github.com/example/crispr/internal/ctxutil"
	"github.com/example/crispr/internal/wire"
)

// configPath is the --config flag value.
var configPath string

// ConfigureRoot adds the global flags to the root command and loads
// configuration before any subcommand runs.
func ConfigureRoot(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.crispr/config.yaml)")
	flags.String("base-url", "", "design service base URL")
	flags.Duration("timeout", 0, "per-request timeout (0 = none)")
	flags.String("log-level", "", "operator log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")

	v := wire.Settings()
	_ = v.BindPFlag(config.KeyBaseURL, flags.Lookup("base-url"))
	_ = v.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			defaultPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			path = defaultPath
		}
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			v.Set(config.KeyColor, false)
		}
		return wire.LoadConfig(path)
	}
}

// NewContext creates a context.Background() with the session ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	return ctxutil.WithSessionID(context.Background(), wire.SessionID())
}
