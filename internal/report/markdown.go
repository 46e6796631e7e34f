// ABOUTME: Markdown rendering of saved plans for sharing or printing.
// ABOUTME: Produces one section per entry, newest first.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/nutriwise/internal/models"
	"github.com/harperreed/nutriwise/internal/trend"
)

// Markdown renders entries and their trend table as a markdown document.
func Markdown(entries []models.HistoryEntry, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# NutriWise Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(entries) == 0 {
		sb.WriteString("No plans saved yet.\n")
		return sb.String()
	}

	sb.WriteString("## Trends\n\n")
	sb.WriteString("| Date | Calories | Protein (g) | Weight (kg) |\n")
	sb.WriteString("|------|----------|-------------|-------------|\n")
	for _, p := range (trend.Projector{Location: now.Location()}).Project(entries) {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			p.DateLabel, FormatNumber(p.Calories), FormatNumber(p.Protein), FormatNumber(p.Weight)))
	}
	sb.WriteString("\n")

	for i := len(entries) - 1; i >= 0; i-- {
		writeMarkdownEntry(&sb, entries[i], now.Location())
	}
	return sb.String()
}

// PlanMarkdown renders a single entry.
func PlanMarkdown(entry models.HistoryEntry) string {
	var sb strings.Builder
	writeMarkdownEntry(&sb, entry, time.Local)
	return sb.String()
}

func writeMarkdownEntry(sb *strings.Builder, e models.HistoryEntry, loc *time.Location) {
	plan := e.Plan

	sb.WriteString(fmt.Sprintf("## Plan %s (%s)\n\n", e.ShortID(), e.Time().In(loc).Format(timeLayout)))
	sb.WriteString(fmt.Sprintf("**Profile:** %s\n\n", ProfileSummary(e.Profile)))
	sb.WriteString(fmt.Sprintf("- Daily calories: %s kcal\n", FormatNumber(plan.DailyCalories)))
	sb.WriteString(fmt.Sprintf("- Macros: protein %s%%, carbs %s%%, fats %s%%\n",
		FormatNumber(plan.MacroRatio.Protein), FormatNumber(plan.MacroRatio.Carbs), FormatNumber(plan.MacroRatio.Fats)))
	sb.WriteString(fmt.Sprintf("- Neuro score: %s/100\n", FormatNumber(plan.BrainHealthScore)))
	if len(plan.NeuroPowerIngredients) > 0 {
		sb.WriteString(fmt.Sprintf("- Neuro-power ingredients: %s\n", strings.Join(plan.NeuroPowerIngredients, ", ")))
	}
	sb.WriteString("\n")

	if plan.BrainHealthInsight != "" {
		sb.WriteString(fmt.Sprintf("> %s\n\n", plan.BrainHealthInsight))
	}

	if len(plan.Meals) > 0 {
		sb.WriteString("| Meal | Dish | kcal | Protein | Carbs | Fats |\n")
		sb.WriteString("|------|------|------|---------|-------|------|\n")
		for _, m := range plan.Meals {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				m.Type, escapeCell(m.Name), FormatNumber(m.Calories),
				FormatNumber(m.Protein), FormatNumber(m.Carbs), FormatNumber(m.Fats)))
		}
		sb.WriteString("\n")

		for _, m := range plan.Meals {
			sb.WriteString(fmt.Sprintf("### %s: %s\n\n", m.Type, m.Name))
			if m.Description != "" {
				sb.WriteString(m.Description + "\n\n")
			}
			if m.PhysicalBenefit != "" {
				sb.WriteString(fmt.Sprintf("- **Body:** %s\n", m.PhysicalBenefit))
			}
			if m.CognitiveBenefit != "" {
				sb.WriteString(fmt.Sprintf("- **Brain:** %s\n", m.CognitiveBenefit))
			}
			if m.MentalHealthImpact != "" {
				sb.WriteString(fmt.Sprintf("- **Mood:** %s\n", m.MentalHealthImpact))
			}
			for _, ib := range m.IngredientBenefits {
				sb.WriteString(fmt.Sprintf("- *%s*: %s\n", ib.Ingredient, ib.Benefit))
			}
			sb.WriteString("\n")
		}
	}

	if len(plan.GeneralTips) > 0 {
		sb.WriteString("### Tips\n\n")
		for i, tip := range plan.GeneralTips {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, tip))
		}
		sb.WriteString("\n")
	}
	if plan.ScientificReasoning != "" {
		sb.WriteString("### Scientific Reasoning\n\n")
		sb.WriteString(plan.ScientificReasoning + "\n\n")
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
