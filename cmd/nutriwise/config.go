// ABOUTME: CLI commands for viewing and editing the config file.
// ABOUTME: Shows effective settings with the API key masked and sets single keys.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutriwise/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change settings",
	Long: `View or change nutriwise settings.

Settings live in ~/.config/nutriwise/config.json. NUTRIWISE_* environment
variables override the file, and GEMINI_API_KEY fills an empty api_key.

KEYS:

  ` + strings.Join(config.Keys(), ", ") + `

EXAMPLES:

  nutriwise config show
  nutriwise config set provider ollama
  nutriwise config set model llama3.2`,
	Annotations: map[string]string{skipStoreAnnotation: "true"},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		redacted := cfg.Redacted()
		data, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Config file: %s\n", config.GetConfigPath())
		fmt.Fprintf(out, "Backend:     %s\n", cfg.GetBackend())
		fmt.Fprintf(out, "Data dir:    %s\n", cfg.GetDataDir())
		fmt.Fprintf(out, "Provider:    %s\n", cfg.GetProvider())
		fmt.Fprintf(out, "Log level:   %s\n", cfg.GetLogLevel())
		fmt.Fprintln(out)
		fmt.Fprintln(out, string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one setting in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Environment overrides must not leak into the saved file.
		fileCfg, err := config.LoadFile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := fileCfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := fileCfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Set %s\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
