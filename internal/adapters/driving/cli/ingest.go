package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

var ingestJSON bool

// mimeByExtension maps file extensions to the MIME types the extractor
// registry understands.
var mimeByExtension = map[string]string{
	".pdf":      "application/pdf",
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Index documents for question answering",
	Long: `Reads the given files, extracts their text, and indexes them for
retrieval. Supported formats: PDF, plain text, Markdown.

Each file is processed independently; one bad file never aborts the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	uploads := make([]driving.Upload, 0, len(args))
	var failed []driving.UploadFailure

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			failed = append(failed, driving.UploadFailure{
				Name:   filepath.Base(path),
				Reason: err.Error(),
			})
			continue
		}

		mimeType, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]
		if !ok {
			failed = append(failed, driving.UploadFailure{
				Name:   filepath.Base(path),
				Reason: fmt.Sprintf("unsupported file extension %q", filepath.Ext(path)),
			})
			continue
		}

		uploads = append(uploads, driving.Upload{
			Name:     filepath.Base(path),
			MIMEType: mimeType,
			Data:     data,
		})
	}

	result := &driving.BatchResult{Failed: failed}
	if len(uploads) > 0 {
		batch, err := ingestionService.IngestBatch(context.Background(), uploads)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		result.Ingested = batch.Ingested
		result.Failed = append(result.Failed, batch.Failed...)
	}

	if ingestJSON {
		if err := printJSON(cmd, result); err != nil {
			return err
		}
	} else {
		for _, doc := range result.Ingested {
			cmd.Printf("  indexed  %s (%s)\n", doc.Name, doc.ID)
		}
		for _, failure := range result.Failed {
			cmd.Printf("  failed   %s: %s\n", failure.Name, failure.Reason)
		}
		cmd.Printf("\n%d indexed, %d failed\n", len(result.Ingested), len(result.Failed))
	}

	if len(result.Ingested) == 0 && len(result.Failed) > 0 {
		return errors.New("no documents were ingested")
	}
	return nil
}
