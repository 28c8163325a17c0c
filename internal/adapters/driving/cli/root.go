// Package cli implements the askdocs command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are injected by the composition root before Execute runs.
var (
	ingestionService driving.IngestionService
	answerService    driving.AnswerService
	analyticsService driving.AnalyticsService
	documentService  driving.DocumentService
)

var configStore driven.ConfigStore

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Ask questions about your documents",
	Long: `askdocs indexes your documents locally and answers questions about
them with citations. Documents never leave your machine except as
excerpts sent to the configured AI provider.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the driving services into the command tree.
func SetServices(
	ingestion driving.IngestionService,
	answers driving.AnswerService,
	analytics driving.AnalyticsService,
	documents driving.DocumentService,
) {
	ingestionService = ingestion
	answerService = answers
	analyticsService = analytics
	documentService = documents
}

// SetConfigStore injects the config store used by the config command.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// SetConfigValidator injects the provider reachability check used by
// the config validate command.
func SetConfigValidator(validate func() error) {
	configValidator = validate
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
