package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/cli"
	"github.com/example/crispr/internal/version"
	"github.com/example/crispr/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "crispr",
		Short:   "CRISPR guide design client",
		Version: version.String(),
		Long: `crispr drives a guide-design session against a remote design service:
fetch a gene sequence, pick a region, request ranked guide candidates,
rate them and export the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.ConfigureRoot(rootCmd)

	// Session commands
	rootCmd.AddCommand(cli.SequenceCmd())
	rootCmd.AddCommand(cli.DesignCmd())
	rootCmd.AddCommand(cli.FeedbackCmd())
	rootCmd.AddCommand(cli.ShellCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	// Service and local tooling
	rootCmd.AddCommand(cli.ServiceCmd())
	rootCmd.AddCommand(cli.StubServiceCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	err := rootCmd.Execute()
	wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
