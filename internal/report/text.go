// ABOUTME: Terminal rendering of plans, history listings, and trend tables.
// ABOUTME: Uses fatih/color for emphasis; color is dropped when output is not a TTY.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutriwise/internal/models"
	"github.com/harperreed/nutriwise/internal/trend"
)

const timeLayout = "2006-01-02 15:04"

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	heading = color.New(color.FgCyan, color.Bold)
	body    = color.New(color.FgGreen)
	brain   = color.New(color.FgMagenta)
	star    = color.New(color.FgYellow)
)

// WritePlan renders one history entry as a full terminal report.
func WritePlan(w io.Writer, entry models.HistoryEntry) {
	plan := entry.Plan

	heading.Fprintln(w, "Holistic Energy Plan")
	faint.Fprintf(w, "%s  %s  %s\n", entry.ShortID(), entry.Time().Format(timeLayout), ProfileSummary(entry.Profile))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s/100\n", bold.Sprint("Neuro Score:"), FormatNumber(plan.BrainHealthScore))
	if len(plan.NeuroPowerIngredients) > 0 {
		names := make([]string, len(plan.NeuroPowerIngredients))
		for i, n := range plan.NeuroPowerIngredients {
			names[i] = star.Sprint("* ") + n
		}
		fmt.Fprintf(w, "%s %s\n", bold.Sprint("Neuro-Power:"), strings.Join(names, "  "))
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "Physical Fuel")
	fmt.Fprintf(w, "  %s kcal/day  (protein %s%%, carbs %s%%, fats %s%%)\n",
		FormatNumber(plan.DailyCalories),
		FormatNumber(plan.MacroRatio.Protein), FormatNumber(plan.MacroRatio.Carbs), FormatNumber(plan.MacroRatio.Fats))
	fmt.Fprintln(w)

	if plan.BrainHealthInsight != "" {
		heading.Fprintln(w, "Cognitive Strategy")
		fmt.Fprintf(w, "  %q\n\n", plan.BrainHealthInsight)
	}

	if len(plan.Meals) > 0 {
		heading.Fprintln(w, "Balanced Meal Sequence")
		for _, m := range plan.Meals {
			writeMeal(w, m)
		}
	}

	if len(plan.GeneralTips) > 0 {
		heading.Fprintln(w, "Integrative Wellness")
		for i, tip := range plan.GeneralTips {
			fmt.Fprintf(w, "  %d. %s\n", i+1, tip)
		}
		fmt.Fprintln(w)
	}

	if plan.ScientificReasoning != "" {
		heading.Fprintln(w, "Scientific Reasoning")
		fmt.Fprintf(w, "  %s\n", plan.ScientificReasoning)
	}
}

func writeMeal(w io.Writer, m models.Meal) {
	fmt.Fprintf(w, "\n  %s  %s  %s\n", bold.Sprint(strings.ToUpper(m.Type)), m.Name, faint.Sprintf("%s kcal", FormatNumber(m.Calories)))
	faint.Fprintf(w, "  P %sg  C %sg  F %sg\n", FormatNumber(m.Protein), FormatNumber(m.Carbs), FormatNumber(m.Fats))
	if m.Description != "" {
		fmt.Fprintf(w, "  %s\n", m.Description)
	}
	if m.PhysicalBenefit != "" {
		fmt.Fprintf(w, "  %s %s\n", body.Sprint("Body:"), m.PhysicalBenefit)
	}
	if m.CognitiveBenefit != "" {
		fmt.Fprintf(w, "  %s %s\n", brain.Sprint("Brain:"), m.CognitiveBenefit)
	}
	if m.MentalHealthImpact != "" {
		faint.Fprintf(w, "  %q\n", m.MentalHealthImpact)
	}
	if len(m.Ingredients) > 0 {
		fmt.Fprintf(w, "  %s %s\n", bold.Sprint("Ingredients:"), strings.Join(m.Ingredients, ", "))
	}
	for _, ib := range m.IngredientBenefits {
		fmt.Fprintf(w, "    - %s: %s\n", ib.Ingredient, ib.Benefit)
	}
	fmt.Fprintln(w)
}

// WriteHistory lists entries newest first, one per line.
func WriteHistory(w io.Writer, entries []models.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No plans saved yet.")
		return
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fmt.Fprintf(w, "%s %s %s kcal  score %s  %s\n",
			faint.Sprint(padRight(e.ShortID(), 8)),
			faint.Sprint(e.Time().Format(timeLayout)),
			padLeft(FormatNumber(e.Plan.DailyCalories), 5),
			padLeft(FormatNumber(e.Plan.BrainHealthScore), 3),
			ProfileSummary(e.Profile))
	}
}

// WriteTrends renders projected rows as an aligned table.
func WriteTrends(w io.Writer, points []trend.Point) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No history to chart yet.")
		return
	}
	bold.Fprintf(w, "%-8s %9s %11s %10s\n", "DATE", "CALORIES", "PROTEIN(g)", "WEIGHT(kg)")
	for _, p := range points {
		fmt.Fprintf(w, "%-8s %9s %11s %10s\n",
			p.DateLabel, FormatNumber(p.Calories), FormatNumber(p.Protein), FormatNumber(p.Weight))
	}
}

// ProfileSummary is a one-line description of a profile.
func ProfileSummary(p models.Profile) string {
	return fmt.Sprintf("%d y %s, %skg, %scm, %s, %s, %s",
		p.Age, p.Gender, FormatNumber(p.Weight), FormatNumber(p.Height),
		p.ActivityLevel, p.Goal, p.DietPreference)
}

// FormatNumber prints whole numbers without decimals and others with one.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.1f", f)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func padLeft(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-len(s)) + s
}
