package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/crispr/internal/wire"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [candidate-id] [rating]",
	Short: "Rate a guide candidate (1-5)",
	Long:  "Send a quality rating for one candidate to the design service",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		notes, _ := cmd.Flags().GetString("notes")

		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("rating must be a number between 1 and 5: %q", args[1])
		}
		return wire.SessionAdapter().Feedback(ctx, args[0], rating, notes)
	},
}

func init() {
	feedbackCmd.Flags().StringP("notes", "n", "", "Free-text notes sent with the rating")
}

// FeedbackCmd returns the feedback command
func FeedbackCmd() *cobra.Command {
	return feedbackCmd
}
