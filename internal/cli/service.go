package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/wire"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Inspect and tune the design service",
	Long:  "Show or change the scoring configuration of the design service and view its metrics",
}

var serviceConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the scoring configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SessionAdapter().ServiceConfig(NewContext())
	},
}

var serviceConfigSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change scoring weights or RL parameters",
	Long: `Change scoring weights or RL parameters. Unnamed values are left alone.

Examples:
  crispr service config set --weight on_target=0.6 --weight off_target=0.2
  crispr service config set --rl epsilon=0.05`,
	RunE: func(cmd *cobra.Command, args []string) error {
		weightArgs, _ := cmd.Flags().GetStringArray("weight")
		rlArgs, _ := cmd.Flags().GetStringArray("rl")

		weights, err := parseAssignments(weightArgs)
		if err != nil {
			return err
		}
		rlParams, err := parseAssignments(rlArgs)
		if err != nil {
			return err
		}
		return wire.SessionAdapter().UpdateServiceConfig(NewContext(), weights, rlParams)
	},
}

var serviceMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the service telemetry summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SessionAdapter().ServiceMetrics(NewContext())
	},
}

func init() {
	serviceConfigSetCmd.Flags().StringArray("weight", nil, "Scoring weight as name=value (repeatable)")
	serviceConfigSetCmd.Flags().StringArray("rl", nil, "RL parameter as name=value (repeatable)")

	serviceConfigCmd.AddCommand(serviceConfigSetCmd)
	serviceCmd.AddCommand(serviceConfigCmd)
	serviceCmd.AddCommand(serviceMetricsCmd)
}

// ServiceCmd returns the service command
func ServiceCmd() *cobra.Command {
	return serviceCmd
}

// parseAssignments parses name=value pairs into a map. Nil for no pairs.
func parseAssignments(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", p)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
		}
		out[name] = value
	}
	return out, nil
}
