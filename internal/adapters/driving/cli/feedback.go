package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	feedbackPositive bool
	feedbackNegative bool
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [interaction-id]",
	Short: "Rate an answer",
	Long: `Records whether an answer was helpful. The interaction ID is
printed after every answer. Rating again overwrites the previous rating.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().BoolVar(&feedbackPositive, "positive", false, "mark the answer as helpful")
	feedbackCmd.Flags().BoolVar(&feedbackNegative, "negative", false, "mark the answer as unhelpful")
	feedbackCmd.MarkFlagsMutuallyExclusive("positive", "negative")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}
	if !feedbackPositive && !feedbackNegative {
		return errors.New("specify --positive or --negative")
	}

	if err := answerService.Feedback(context.Background(), args[0], feedbackPositive); err != nil {
		return fmt.Errorf("feedback failed: %w", err)
	}

	if feedbackPositive {
		cmd.Println("Recorded positive feedback.")
	} else {
		cmd.Println("Recorded negative feedback.")
	}
	return nil
}
