// ABOUTME: CLI command for requesting a new nutrition plan.
// ABOUTME: Builds a profile from flags, calls the model, and saves the result.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutriwise/internal/gateway"
	"github.com/harperreed/nutriwise/internal/models"
	"github.com/harperreed/nutriwise/internal/planner"
	"github.com/harperreed/nutriwise/internal/report"
	"github.com/spf13/cobra"
)

var (
	genAge      int
	genGender   string
	genWeight   float64
	genHeight   float64
	genActivity string
	genGoal     string
	genDiet     string
	genJSON     bool
	genMarkdown bool
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a nutrition plan for a profile",
	Long: `Generate a personalized daily nutrition plan.

Unset flags fall back to the default profile (25 year old male, 70 kg,
175 cm, moderately active, healthy living, no diet restriction).

ACTIVITY LEVELS:  sedentary, light, moderate, very_active, extra_active
GOALS:            healthy_living, weight_loss, muscle_gain, energy_boost
DIETS:            any, vegetarian, vegan, keto, paleo, gluten_free

EXAMPLES:

  nutriwise generate --age 41 --gender female --weight 64 --height 165
  nutriwise gen --goal muscle_gain --diet vegetarian --activity very_active
  nutriwise gen --json > plan.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := profileFromFlags()
		if err != nil {
			return err
		}

		gw, err := gateway.New(cfg.GatewayConfig(), gateway.NewLogObserver(logger))
		if err != nil {
			return fmt.Errorf("model provider not configured: %w", err)
		}

		p := planner.New(gw, hist, logger)
		entry, err := p.Generate(cmd.Context(), profile)
		if err != nil {
			if errors.Is(err, gateway.ErrGatewayFailure) {
				return errors.New(color.RedString(gateway.UserMessage))
			}
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case genJSON:
			data, err := json.MarshalIndent(entry, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode plan: %w", err)
			}
			fmt.Fprintln(out, string(data))
		case genMarkdown:
			fmt.Fprint(out, report.PlanMarkdown(entry))
		default:
			report.WritePlan(out, entry)
		}
		return nil
	},
}

func init() {
	d := models.DefaultProfile()
	generateCmd.Flags().IntVar(&genAge, "age", d.Age, "age in years (1-120)")
	generateCmd.Flags().StringVar(&genGender, "gender", d.Gender, "gender ("+strings.Join(models.AllGenders, ", ")+")")
	generateCmd.Flags().Float64Var(&genWeight, "weight", d.Weight, "weight in kilograms")
	generateCmd.Flags().Float64Var(&genHeight, "height", d.Height, "height in centimeters")
	generateCmd.Flags().StringVar(&genActivity, "activity", string(d.ActivityLevel), "activity level")
	generateCmd.Flags().StringVar(&genGoal, "goal", string(d.Goal), "primary goal")
	generateCmd.Flags().StringVar(&genDiet, "diet", string(d.DietPreference), "diet preference")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "print the saved entry as JSON")
	generateCmd.Flags().BoolVar(&genMarkdown, "markdown", false, "print the plan as markdown")
	generateCmd.MarkFlagsMutuallyExclusive("json", "markdown")
	rootCmd.AddCommand(generateCmd)
}

// profileFromFlags assembles and validates the profile from generate flags.
func profileFromFlags() (models.Profile, error) {
	p := models.Profile{
		Age:            genAge,
		Gender:         genGender,
		Weight:         genWeight,
		Height:         genHeight,
		ActivityLevel:  models.ActivityLevel(genActivity),
		Goal:           models.Goal(genGoal),
		DietPreference: models.DietPreference(genDiet),
	}.Normalized()
	if err := p.Validate(); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
