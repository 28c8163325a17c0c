package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

var (
	analyticsJSON  bool
	analyticsLimit int
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show usage analytics",
	Long: `Shows aggregate statistics over the question ledger: most-used
documents, repeated questions, feedback rates, coverage gaps.`,
	RunE: runAnalytics,
}

var analyticsDocumentCmd = &cobra.Command{
	Use:   "document [document-id]",
	Short: "Show analytics for one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyticsDocument,
}

var analyticsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent interactions",
	RunE:  runAnalyticsRecent,
}

func init() {
	analyticsCmd.PersistentFlags().BoolVar(&analyticsJSON, "json", false, "output as JSON")
	analyticsRecentCmd.Flags().IntVarP(&analyticsLimit, "limit", "n", 10, "number of interactions to show")
	analyticsCmd.AddCommand(analyticsDocumentCmd)
	analyticsCmd.AddCommand(analyticsRecentCmd)
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, _ []string) error {
	if analyticsService == nil {
		return errors.New("analytics service not configured")
	}

	report, err := analyticsService.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("analytics failed: %w", err)
	}

	if analyticsJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("Interactions: %d total, %d failed\n", report.TotalInteractions, report.FailedInteractions)
	cmd.Printf("Average response time: %.0fms\n", report.AverageResponseTimeMS)
	if report.Feedback.Total > 0 {
		cmd.Printf("Feedback: %d rated, %.0f%% positive\n",
			report.Feedback.Total, report.Feedback.PositivePercentage)
	}

	printDocumentUsage(cmd, "Most queried documents", report.MostQueriedDocuments)
	printDocumentUsage(cmd, "This week", report.WeeklyDocumentCounts)

	if len(report.MostAskedQuestions) > 0 {
		cmd.Println("\nMost asked questions:")
		for _, q := range report.MostAskedQuestions {
			cmd.Printf("  %3dx  %s\n", q.Count, q.Question)
		}
	}

	if len(report.UnusedDocuments) > 0 {
		cmd.Println("\nNever-used documents:")
		for _, doc := range report.UnusedDocuments {
			cmd.Printf("  - %s\n", doc.Name)
		}
	}

	if len(report.QuestionsWithoutDocuments) > 0 {
		cmd.Println("\nQuestions answered without documents:")
		for _, q := range report.QuestionsWithoutDocuments {
			cmd.Printf("  - %s\n", q.Question)
		}
	}

	if len(report.QuestionsWithNegativeFeedback) > 0 {
		cmd.Println("\nQuestions with negative feedback:")
		for _, q := range report.QuestionsWithNegativeFeedback {
			cmd.Printf("  - %s\n", q.Question)
		}
	}

	return nil
}

func runAnalyticsDocument(cmd *cobra.Command, args []string) error {
	if analyticsService == nil {
		return errors.New("analytics service not configured")
	}

	report, err := analyticsService.DocumentReport(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("document report failed: %w", err)
	}

	if analyticsJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("%s (%s)\n", report.Name, report.DocumentID)
	cmd.Printf("Uploaded: %s\n", report.UploadedAt.Format("2006-01-02"))
	cmd.Printf("Used in %d answers, average %.0fms\n", report.TotalUses, report.AverageResponseTimeMS)

	if len(report.RecentQuestions) > 0 {
		cmd.Println("\nRecent questions:")
		for _, q := range report.RecentQuestions {
			cmd.Printf("  %s  %s (%dms)\n", q.CreatedAt.Format("2006-01-02 15:04"), q.Question, q.LatencyMS)
		}
	}
	return nil
}

func runAnalyticsRecent(cmd *cobra.Command, _ []string) error {
	if analyticsService == nil {
		return errors.New("analytics service not configured")
	}

	interactions, err := analyticsService.RecentInteractions(context.Background(), analyticsLimit)
	if err != nil {
		return fmt.Errorf("listing interactions failed: %w", err)
	}

	if analyticsJSON {
		return printJSON(cmd, interactions)
	}

	if len(interactions) == 0 {
		cmd.Println("No interactions yet.")
		return nil
	}

	for _, interaction := range interactions {
		status := "ok"
		if interaction.Failed {
			status = "failed"
		}
		cmd.Printf("%s  [%s]  %s\n",
			interaction.CreatedAt.Format("2006-01-02 15:04"), status, interaction.Question)
	}
	return nil
}

func printDocumentUsage(cmd *cobra.Command, title string, usage []domain.DocumentUsage) {
	if len(usage) == 0 {
		return
	}
	cmd.Printf("\n%s:\n", title)
	for _, u := range usage {
		cmd.Printf("  %3dx  %s\n", u.Count, u.Name)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
