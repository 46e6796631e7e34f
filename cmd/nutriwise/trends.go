// ABOUTME: CLI command for the progress trend table.
// ABOUTME: Projects saved plans into calories, protein, and weight per date.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/harperreed/nutriwise/internal/report"
	"github.com/harperreed/nutriwise/internal/trend"
	"github.com/spf13/cobra"
)

var trendsJSON bool

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show calories, protein, and weight over time",
	Long: `Show one row per saved plan, oldest first: the plan date, its daily
calorie target, total protein across meals, and the body weight it was
generated for.

EXAMPLES:

  nutriwise trends
  nutriwise trends --json | jq '.series.calories'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		points := trend.Project(hist.Current())
		out := cmd.OutOrStdout()
		if trendsJSON {
			data, err := json.MarshalIndent(struct {
				Points []trend.Point `json:"points"`
				Series trend.Series  `json:"series"`
			}{points, trend.Columns(points)}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		report.WriteTrends(out, points)
		return nil
	},
}

func init() {
	trendsCmd.Flags().BoolVar(&trendsJSON, "json", false, "print points and column series as JSON")
	rootCmd.AddCommand(trendsCmd)
}
