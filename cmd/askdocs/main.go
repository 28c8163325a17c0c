// Command askdocs is a local-first document question answering CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/ai"
	blobfile "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/blob/file"
	configfile "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/config/file"
	storagesqlite "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite"
	vectorsqlite "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/vector/sqlite"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/askdocs-cli/internal/chunker"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/services"
	"github.com/custodia-labs/askdocs-cli/internal/extractors"
)

// version is overridden at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	// Empty means the adapters fall back to ~/.askdocs/data.
	dataDir := configStore.GetString("storage.data_dir")

	store, err := storagesqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close() //nolint:errcheck // Best-effort close on exit

	vectorIndex, err := vectorsqlite.NewIndex(dataDir)
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	defer vectorIndex.Close() //nolint:errcheck // Best-effort close on exit

	blobStore, err := blobfile.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	embeddingSettings, generationSettings := ai.SettingsFromConfig(configStore)

	// Providers are constructed without a reachability check so that
	// offline commands (documents, analytics, config) always work.
	// The answer and ingest paths surface provider errors on first use.
	embeddingService, err := ai.CreateEmbeddingService(embeddingSettings)
	if err != nil {
		return fmt.Errorf("configuring embedding provider: %w", err)
	}
	generationService, err := ai.CreateGenerationService(generationSettings)
	if err != nil {
		return fmt.Errorf("configuring generation provider: %w", err)
	}

	docStore := store.DocumentStore()
	interactionStore := store.InteractionStore()
	conversationStore := store.ConversationStore()

	ingestionService := services.NewIngestionService(
		docStore, blobStore, vectorIndex, embeddingService, extractors.Defaults(),
		chunker.New(chunkerOptions(configStore)...))
	answerService := services.NewAnswerService(
		docStore, vectorIndex, embeddingService, generationService,
		interactionStore, conversationStore, ai.AnswerSettingsFromConfig(configStore))
	analyticsService := services.NewAnalyticsService(docStore, interactionStore)
	documentService := services.NewDocumentService(docStore, vectorIndex)

	cli.SetServices(ingestionService, answerService, analyticsService, documentService)
	cli.SetConfigStore(configStore)
	cli.SetConfigValidator(func() error {
		if _, err := ai.CreateAndValidateEmbeddingService(embeddingSettings); err != nil {
			return err
		}
		if _, err := ai.CreateAndValidateGenerationService(generationSettings); err != nil {
			return err
		}
		return nil
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// chunkerOptions translates configured chunking parameters into chunker
// options. Unset keys leave the chunker defaults in place.
func chunkerOptions(cfg driven.ConfigStore) []chunker.Option {
	var opts []chunker.Option
	if size := cfg.GetInt("chunker.chunk_size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if _, ok := cfg.Get("chunker.overlap"); ok {
		opts = append(opts, chunker.WithOverlap(cfg.GetInt("chunker.overlap")))
	}
	return opts
}
