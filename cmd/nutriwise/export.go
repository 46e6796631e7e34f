// ABOUTME: CLI commands for exporting and importing saved plans.
// ABOUTME: Supports JSON, YAML, and Markdown export and merges imported backups.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nutriwise/internal/history"
	"github.com/harperreed/nutriwise/internal/models"
	"github.com/harperreed/nutriwise/internal/report"
	"github.com/spf13/cobra"
)

var (
	exportOutput  string
	exportSince   string
	importReplace bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export saved plans",
	Long: `Export saved plans in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Trend table plus every plan (for sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include plans since this date (YYYY-MM-DD)

EXAMPLES:

  nutriwise export json                        # Export all plans as JSON
  nutriwise export json -o backup.json         # Save to file
  nutriwise export yaml                        # Export as YAML
  nutriwise export markdown --since 2025-01-01 # Plans from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := entriesSince(hist.Current(), exportSince)
		if err != nil {
			return err
		}

		now := time.Now()
		var data []byte
		switch args[0] {
		case "json":
			data, err = report.ExportJSON(entries, now)
		case "yaml":
			data, err = report.ExportYAML(entries, now)
		case "markdown":
			data = []byte(report.Markdown(entries, now))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(out, "✓ Exported %d plans to %s\n", len(entries), exportOutput)
			return nil
		}
		fmt.Fprintln(out, string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import saved plans from a backup",
	Long: `Import plans from a JSON or YAML export, or from a raw saved history array.

Imported plans are merged with the current history by ID and only the 10
newest are kept. Use --replace to discard the current history first.

EXAMPLES:

  nutriwise import backup.json
  nutriwise import backup.yaml --replace`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		imported, err := report.ParseImport(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		merged := imported
		if !importReplace {
			merged = mergeEntries(hist.Current(), imported)
		}
		if err := hist.Restore(merged); err != nil {
			if !history.IsPersistenceError(err) {
				return fmt.Errorf("import failed: %w", err)
			}
			logger.Warn("failed to persist imported history", "backend", cfg.GetBackend(), "err", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Imported %d plans from %s (%d kept)\n", len(imported), args[0], hist.Len())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include plans since date (YYYY-MM-DD)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "replace the current history instead of merging")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// entriesSince keeps entries at or after the given local date. An empty date keeps all.
func entriesSince(entries []models.HistoryEntry, since string) ([]models.HistoryEntry, error) {
	if since == "" {
		return entries, nil
	}
	t, err := time.ParseInLocation("2006-01-02", since, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", since)
	}

	var out []models.HistoryEntry
	for _, e := range entries {
		if !e.Time().Before(t) {
			out = append(out, e)
		}
	}
	return out, nil
}

// mergeEntries combines current and imported entries; imported wins on ID collisions.
// Entries without an ID are always kept and get one on restore.
func mergeEntries(current, imported []models.HistoryEntry) []models.HistoryEntry {
	seen := make(map[string]bool, len(imported))
	for _, e := range imported {
		if e.ID != "" {
			seen[e.ID] = true
		}
	}

	merged := make([]models.HistoryEntry, 0, len(current)+len(imported))
	for _, e := range current {
		if e.ID != "" && seen[e.ID] {
			continue
		}
		merged = append(merged, e)
	}
	return append(merged, imported...)
}
