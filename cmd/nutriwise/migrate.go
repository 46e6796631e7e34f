// ABOUTME: CLI command for moving saved plans between storage backends.
// ABOUTME: Copies the history key from one backend to another.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/nutriwise/internal/history"
	"github.com/harperreed/nutriwise/internal/kv"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy saved plans between storage backends",
	Long: `Copy the saved plan history from one storage backend to another.

BACKENDS:

  sqlite   ~/.local/share/nutriwise/nutriwise.db (default)
  badger   ~/.local/share/nutriwise/badger/
  charm    Charm Cloud KV, synced across devices
  memory   Nothing is kept after the command exits

IMPORTANT:

  - The destination history is overwritten
  - The source is left untouched
  - Run with --dry-run first to see what would be copied

USAGE:

  nutriwise migrate --from sqlite --to charm --dry-run
  nutriwise migrate --from sqlite --to charm

AFTER MIGRATION:

  Switch the default backend so future plans land in the new store:
    nutriwise config set backend charm`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStoreAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %q", migrateFrom)
		}
		for _, b := range []string{migrateFrom, migrateTo} {
			if !kv.IsValidBackend(b) {
				return fmt.Errorf("unknown backend %q", b)
			}
		}

		out := cmd.OutOrStdout()
		yellow := color.New(color.FgYellow)
		if migrateDryRun {
			yellow.Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintln(out)
		}

		src, err := cfg.OpenBackend(migrateFrom)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateFrom, err)
		}
		defer src.Close()

		raw, ok, err := src.Get(history.DefaultKey)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", migrateFrom, err)
		}
		if !ok {
			yellow.Fprintf(out, "No saved plans in %s; nothing to migrate.\n", migrateFrom)
			return nil
		}
		entries, err := history.Decode(raw)
		if err != nil {
			return fmt.Errorf("history in %s is unreadable: %w", migrateFrom, err)
		}

		fmt.Fprintf(out, "Found %d saved plans in %s\n", len(entries), migrateFrom)
		if migrateDryRun {
			fmt.Fprintf(out, "Would copy them to %s\n", migrateTo)
			return nil
		}

		dst, err := cfg.OpenBackend(migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateTo, err)
		}
		defer dst.Close()

		if _, err := kv.Copy(src, dst, history.DefaultKey); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Copied %d plans from %s to %s\n", len(entries), migrateFrom, migrateTo)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", kv.BackendSQLite, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", kv.BackendCharm, "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
