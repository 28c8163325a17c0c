package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `View and change provider configuration.

Common keys:
  embedding.provider    ollama | openai
  embedding.model       embedding model name
  embedding.base_url    base URL for local providers
  embedding.api_key     API key (or set OPENAI_API_KEY)
  llm.provider          ollama | openai | anthropic
  llm.model             generation model name
  llm.base_url          base URL for local providers
  llm.api_key           API key (or set OPENAI_API_KEY / ANTHROPIC_API_KEY)
  answer.top_k          chunks retrieved per question
  answer.min_similarity minimum similarity for a chunk to be used
  chunker.chunk_size    chunk size in runes
  chunker.overlap       overlap between chunks in runes
  storage.data_dir      data directory (default ~/.askdocs/data)`,
	RunE: runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configured providers are reachable",
	RunE:  runConfigValidate,
}

// configValidator pings the configured providers. Injected by the
// composition root.
var configValidator func() error

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())

	cmd.Println("[embedding]")
	printConfigValue(cmd, "provider", configStore.GetString("embedding.provider"))
	printConfigValue(cmd, "model", configStore.GetString("embedding.model"))
	printConfigValue(cmd, "base_url", configStore.GetString("embedding.base_url"))
	printConfigSecret(cmd, "api_key", configStore.GetString("embedding.api_key"))
	cmd.Println()

	cmd.Println("[llm]")
	printConfigValue(cmd, "provider", configStore.GetString("llm.provider"))
	printConfigValue(cmd, "model", configStore.GetString("llm.model"))
	printConfigValue(cmd, "base_url", configStore.GetString("llm.base_url"))
	printConfigSecret(cmd, "api_key", configStore.GetString("llm.api_key"))
	cmd.Println()

	cmd.Println("[answer]")
	if topK := configStore.GetInt("answer.top_k"); topK > 0 {
		cmd.Printf("  top_k = %d\n", topK)
	} else {
		cmd.Println("  top_k = (default)")
	}
	if sim := configStore.GetFloat("answer.min_similarity"); sim > 0 {
		cmd.Printf("  min_similarity = %.2f\n", sim)
	} else {
		cmd.Println("  min_similarity = (default)")
	}
	cmd.Println()

	cmd.Println("[chunker]")
	if size := configStore.GetInt("chunker.chunk_size"); size > 0 {
		cmd.Printf("  chunk_size = %d\n", size)
	} else {
		cmd.Println("  chunk_size = (default)")
	}
	if overlap, ok := configStore.Get("chunker.overlap"); ok {
		cmd.Printf("  overlap = %v\n", overlap)
	} else {
		cmd.Println("  overlap = (default)")
	}
	cmd.Println()

	cmd.Println("[storage]")
	if dir := configStore.GetString("storage.data_dir"); dir != "" {
		cmd.Printf("  data_dir = %s\n", dir)
	} else {
		cmd.Println("  data_dir = (default)")
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	if strings.HasSuffix(args[0], "api_key") {
		cmd.Println(maskAPIKey(fmt.Sprint(value)))
		return nil
	}
	cmd.Println(value)
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if configValidator == nil {
		return errors.New("config validator not configured")
	}

	if err := configValidator(); err != nil {
		return err
	}
	cmd.Println("Configuration is valid; providers are reachable.")
	return nil
}

// parseConfigValue keeps numeric values numeric so TOML round-trips them
// with the right type.
func parseConfigValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func printConfigValue(cmd *cobra.Command, name, value string) {
	if value == "" {
		value = "(not set)"
	}
	cmd.Printf("  %s = %s\n", name, value)
}

func printConfigSecret(cmd *cobra.Command, name, value string) {
	if value == "" {
		cmd.Printf("  %s = (not set)\n", name)
		return
	}
	cmd.Printf("  %s = %s\n", name, maskAPIKey(value))
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
