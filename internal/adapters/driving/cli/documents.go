package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	documentsJSON  bool
	deleteAllForce bool
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage indexed documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	RunE:  runDocumentsList,
}

var documentsDeleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every document and its index entries",
	Long: `Removes all documents, their chunks and their vector index entries.
The question ledger is kept. Requires --force.`,
	RunE: runDocumentsDeleteAll,
}

func init() {
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	documentsDeleteAllCmd.Flags().BoolVar(&deleteAllForce, "force", false, "confirm deletion")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteAllCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing documents failed: %w", err)
	}

	if documentsJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed. Use 'askdocs ingest' to add some.")
		return nil
	}

	for _, doc := range docs {
		line := fmt.Sprintf("%s  [%s]  %s", doc.UploadedAt.Format("2006-01-02"), doc.Status, doc.Name)
		if doc.FailureReason != "" {
			line += " (" + doc.FailureReason + ")"
		}
		cmd.Println(line)
		cmd.Printf("  id: %s\n", doc.ID)
	}
	return nil
}

func runDocumentsDeleteAll(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if !deleteAllForce {
		return errors.New("refusing to delete without --force")
	}

	deleted, err := documentService.DeleteAll(context.Background())
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted %d documents.\n", len(deleted))
	return nil
}
