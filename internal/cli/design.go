package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/config"
	"github.com/example/crispr/internal/wire"
)

var designCmd = &cobra.Command{
	Use:   "design [gene-id]",
	Short: "Design guide candidates for a gene",
	Long: `Fetch the gene sequence, optionally narrow the region, and ask the design
service for ranked guide candidates.

Examples:
  crispr design BRCA1
  crispr design BRCA1 --start 100 --end 400 --sort on-target --desc
  crispr design BRCA1 --export --export-dir results/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		geneID := args[0]
		sortBy, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		doExport, _ := cmd.Flags().GetBool("export")

		adapter := wire.SessionAdapter()
		if err := adapter.Fetch(ctx, geneID); err != nil {
			return err
		}

		if cmd.Flags().Changed("start") || cmd.Flags().Changed("end") {
			view := wire.SessionService().GetSession(ctx)
			start, end := view.RegionStart, view.RegionEnd
			if cmd.Flags().Changed("start") {
				start, _ = cmd.Flags().GetInt("start")
			}
			if cmd.Flags().Changed("end") {
				end, _ = cmd.Flags().GetInt("end")
			}
			if err := adapter.SetRegion(ctx, start, end); err != nil {
				return err
			}
		}

		if err := adapter.Design(ctx, geneID, sortBy, desc); err != nil {
			return err
		}

		if doExport {
			return adapter.Export(ctx, wire.Config().Export.Dir)
		}
		return nil
	},
}

func init() {
	designCmd.Flags().Int("start", 0, "Region start offset")
	designCmd.Flags().Int("end", 0, "Region end offset (exclusive)")
	designCmd.Flags().String("sort", "", "Re-sort display by rank, composite, on-target, off-target, gc or locus")
	designCmd.Flags().Bool("desc", false, "Sort descending")
	designCmd.Flags().Bool("export", false, "Write crispr_guides.csv after designing")
	designCmd.Flags().String("export-dir", "", "Directory for the exported CSV")
	_ = wire.Settings().BindPFlag(config.KeyExportDir, designCmd.Flags().Lookup("export-dir"))
}

// DesignCmd returns the design command
func DesignCmd() *cobra.Command {
	return designCmd
}
