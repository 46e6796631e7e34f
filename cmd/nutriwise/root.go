// ABOUTME: Root Cobra command for the nutriwise CLI.
// ABOUTME: Loads config and opens the history store via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nutriwise/internal/config"
	"github.com/harperreed/nutriwise/internal/history"
	"github.com/harperreed/nutriwise/internal/kv"
	"github.com/spf13/cobra"
)

// skipStoreAnnotation marks commands that manage their own stores or need none.
const skipStoreAnnotation = "nutriwise/skip-store"

var (
	cfg    *config.Config
	logger *log.Logger
	store  kv.Store
	hist   *history.Store

	flagBackend string
	flagDataDir string

	// openStore opens the configured history backend.
	openStore = func(c *config.Config) (kv.Store, error) { return c.OpenStore() }
)

var rootCmd = &cobra.Command{
	Use:   "nutriwise",
	Short: "AI-assisted daily nutrition planner",
	Long: `NutriWise turns a short profile into a personalized daily nutrition plan.

Each plan carries a calorie target, a macro split, a meal sequence with
per-ingredient benefits, a brain health score, and practical tips. The
last 10 plans are kept so you can watch calories, protein, and weight
change over time.

QUICK START:

  $ export GEMINI_API_KEY=...                          # Or: nutriwise config set api_key ...
  $ nutriwise generate --age 32 --gender female \
      --weight 62 --height 168 --goal energy_boost     # Request a plan
  $ nutriwise history                                  # See saved plans
  $ nutriwise history show 01J8Z3                      # Reopen one plan
  $ nutriwise trends                                   # Calories, protein, weight

MODEL PROVIDERS:

  gemini   Google Gemini (default, needs an API key)
  ollama   Local Ollama server (nutriwise config set provider ollama)

MCP INTEGRATION:

  Run 'nutriwise mcp' to start the Model Context Protocol server for use
  with Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "nutriwise": { "command": "nutriwise", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  History is stored under ~/.local/share/nutriwise using the configured
  backend (sqlite, badger, charm, or memory).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagBackend != "" {
			if !kv.IsValidBackend(flagBackend) {
				return fmt.Errorf("unknown backend %q", flagBackend)
			}
			cfg.Backend = flagBackend
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}

		logger, err = cfg.Logger(os.Stderr)
		if err != nil {
			return err
		}

		if skipsStore(cmd) {
			return nil
		}
		return openHistory()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend (sqlite, badger, charm, memory)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for local backends")
}

// Execute runs the root command and releases the store even when a command fails.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeStore(); err == nil {
		err = cerr
	}
	return err
}

func openHistory() error {
	var err error
	store, err = openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.GetBackend(), err)
	}

	hist = history.New(store, history.WithLogger(logger))
	if err := hist.Load(); err != nil {
		// A store that cannot be read starts empty; generation still works.
		logger.Warn("could not read saved history", "backend", cfg.GetBackend(), "err", err)
	}
	return nil
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	hist = nil
	if err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}

func skipsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipStoreAnnotation] == "true" {
			return true
		}
	}
	return false
}
