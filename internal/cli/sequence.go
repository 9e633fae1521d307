package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/wire"
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence [gene-id]",
	Short: "Fetch and print a gene sequence",
	Long:  "Fetch the nucleotide sequence for a gene from the design service and print it in FASTA layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		width, _ := cmd.Flags().GetInt("wrap")

		adapter := wire.SessionAdapter()
		if err := adapter.Fetch(ctx, args[0]); err != nil {
			return err
		}
		return adapter.Sequence(ctx, width)
	},
}

func init() {
	sequenceCmd.Flags().Int("wrap", 60, "Bases per output line")
}

// SequenceCmd returns the sequence command
func SequenceCmd() *cobra.Command {
	return sequenceCmd
}
