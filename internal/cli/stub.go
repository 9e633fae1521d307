package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/adapters/stubservice"
	"github.com/example/crispr/internal/config"
	"github.com/example/crispr/internal/wire"
)

// demoSequences are served when no FASTA file is given.
var demoSequences = map[string]string{
	"DEMO1": "ATGCGTACCGGTAGCTAGGCTTACGGATCCGATCGTAGCTAGCTGGACTGACGGTACCAGTCGATCGGCTAGCTTGGCAATCGGATCGTACGATCGGGCTAGCTAGTCGG",
	"DEMO2": "TTGACCGGTTAACCGGTAGGCTAGCTAGCATCGGATGCTAGCTAGGCTAGCTACGTAGCTGGATCGATCGTAGCTAGCAGGTTAGC",
}

var stubServiceCmd = &cobra.Command{
	Use:   "stub-service",
	Short: "Run a local stand-in for the design service",
	Long: `Serve the design service HTTP interface from local sequences, using a
deterministic PAM scan and placeholder scores. Useful for trying the client
without the real service.

Examples:
  crispr stub-service
  crispr stub-service --fasta genes.fa --listen 127.0.0.1:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fastaPath, _ := cmd.Flags().GetString("fasta")

		sequences := demoSequences
		if fastaPath != "" {
			f, err := os.Open(fastaPath)
			if err != nil {
				return fmt.Errorf("failed to open fasta: %w", err)
			}
			defer f.Close()

			sequences, err = stubservice.ReadFASTA(f)
			if err != nil {
				return err
			}
			if len(sequences) == 0 {
				return fmt.Errorf("no sequences in %s", fastaPath)
			}
		}

		addr := wire.Config().Stub.Listen
		srv := &http.Server{
			Addr:              addr,
			Handler:           stubservice.New(sequences, wire.Logger()).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		fmt.Printf("✓ Stub design service with %d sequence(s) on http://%s\n", len(sequences), addr)
		return listenUntilSignal(srv, wire.Logger())
	},
}

func init() {
	stubServiceCmd.Flags().String("fasta", "", "FASTA file of sequences to serve")
	stubServiceCmd.Flags().String("listen", "", "Address to serve on")
	_ = wire.Settings().BindPFlag(config.KeyStubListen, stubServiceCmd.Flags().Lookup("listen"))
}

// StubServiceCmd returns the stub-service command
func StubServiceCmd() *cobra.Command {
	return stubServiceCmd
}
