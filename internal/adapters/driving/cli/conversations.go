package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var conversationsJSON bool

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List conversation threads",
	Long: `Lists conversation threads, most recently updated first. Pass a
thread's ID to 'askdocs ask --conversation' to continue it.`,
	RunE: runConversations,
}

func init() {
	conversationsCmd.Flags().BoolVar(&conversationsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(conversationsCmd)
}

func runConversations(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	conversations, err := answerService.Conversations(context.Background())
	if err != nil {
		return fmt.Errorf("listing conversations failed: %w", err)
	}

	if conversationsJSON {
		return printJSON(cmd, conversations)
	}

	if len(conversations) == 0 {
		cmd.Println("No conversations yet. Start one with 'askdocs ask -c <id>'.")
		return nil
	}

	for _, conversation := range conversations {
		cmd.Printf("%s  %s\n", conversation.UpdatedAt.Format("2006-01-02 15:04"), conversation.Title)
		cmd.Printf("  id: %s\n", conversation.ID)
	}
	return nil
}
