// ABOUTME: CLI commands for browsing and clearing saved plans.
// ABOUTME: Lists the history newest first, reopens one entry, or wipes it after confirmation.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutriwise/internal/history"
	"github.com/harperreed/nutriwise/internal/report"
	"github.com/spf13/cobra"
)

const clearPrompt = "Are you sure you want to clear your progress history?"

var (
	historyJSON      bool
	showJSON         bool
	showMarkdown     bool
	clearSkipConfirm bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls"},
	Short:   "List saved plans",
	Long: `List the saved plans, newest first. Up to 10 plans are kept; the
oldest is dropped when a new one is generated.

EXAMPLES:

  nutriwise history
  nutriwise history show 3f2a9c1d
  nutriwise history clear -y`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := hist.Current()
		out := cmd.OutOrStdout()
		if historyJSON {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		report.WriteHistory(out, entries)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved plan",
	Long:  `Show a saved plan by its ID or any unique ID prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := hist.Find(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case showJSON:
			data, err := json.MarshalIndent(entry, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		case showMarkdown:
			fmt.Fprint(out, report.PlanMarkdown(entry))
		default:
			report.WritePlan(out, entry)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !clearSkipConfirm {
			ok, err := confirm(cmd.InOrStdin(), out, clearPrompt)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Canceled.")
				return nil
			}
		}

		n := hist.Len()
		if err := hist.Clear(); err != nil {
			if !history.IsPersistenceError(err) {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			logger.Warn("failed to persist cleared history", "backend", cfg.GetBackend(), "err", err)
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Cleared %d saved plans\n", n)
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print entries as JSON")
	historyShowCmd.Flags().BoolVar(&showJSON, "json", false, "print the entry as JSON")
	historyShowCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "print the plan as markdown")
	historyShowCmd.MarkFlagsMutuallyExclusive("json", "markdown")
	historyClearCmd.Flags().BoolVarP(&clearSkipConfirm, "yes", "y", false, "skip confirmation prompt")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// confirm asks a yes/no question and reports whether the answer was yes.
// End of input counts as no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
