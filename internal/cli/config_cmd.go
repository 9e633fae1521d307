package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/config"
	"github.com/example/crispr/internal/wire"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := wire.Config()
		fmt.Printf("%-18s %s\n", config.KeyBaseURL, cfg.Service.BaseURL)
		fmt.Printf("%-18s %s\n", config.KeyTimeout, cfg.Service.Timeout)
		fmt.Printf("%-18s %s\n", config.KeyExportDir, cfg.Export.Dir)
		fmt.Printf("%-18s %s\n", config.KeyLogLevel, cfg.Log.Level)
		fmt.Printf("%-18s %t\n", config.KeyColor, cfg.Output.Color)
		fmt.Printf("%-18s %s\n", config.KeyDashboardListen, cfg.Dashboard.Listen)
		fmt.Printf("%-18s %s\n", config.KeyStubListen, cfg.Stub.Listen)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			defaultPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			path = defaultPath
		}

		if err := config.SaveConfig(wire.Settings(), path); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	return configCmd
}
