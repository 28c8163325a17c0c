package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askConversation string
	askJSON         bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Answers a natural-language question using the indexed documents.
The answer cites the documents it was grounded on. Use --conversation
to keep a multi-turn thread with follow-up context.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askConversation, "conversation", "c", "", "conversation ID for follow-up questions")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	answer, err := answerService.Answer(context.Background(), args[0], askConversation)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, answer)
	}

	cmd.Println(answer.Text)
	cmd.Println()
	if len(answer.CitedDocuments) > 0 {
		cmd.Println("Sources:")
		for _, cited := range answer.CitedDocuments {
			cmd.Printf("  - %s\n", cited.Name)
		}
	} else if !answer.Grounded {
		cmd.Println("(answered without document context)")
	}
	cmd.Printf("\ninteraction: %s  (%dms)\n", answer.InteractionID, answer.LatencyMS)
	return nil
}
