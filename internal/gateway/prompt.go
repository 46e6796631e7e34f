// ABOUTME: Prompt construction for neuro-nutrition plan requests.
// ABOUTME: Balances physical and cognitive benefit around South Indian cuisine.
package gateway

import (
	"fmt"
	"strings"

	"github.com/harperreed/nutriwise/internal/models"
)

// SystemInstruction frames the model's role for every request.
const SystemInstruction = "You are a specialist in Integrative Neuro-Nutrition and South Indian culinary science. " +
	"Provide high-quality JSON responses that highlight the synergy between body and brain health."

// BuildPrompt returns the system instruction and the user prompt for profile.
func BuildPrompt(p models.Profile) (system, user string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a 1-day holistic diet plan for a %d-year-old %s that EQUALLY BALANCES physical health and brain performance.\n\n",
		p.Age, p.Gender)
	fmt.Fprintf(&b, "Stats: Weight %gkg, Height %gcm. Activity Level: %s. Goal: %s. Preference: %s.\n\n",
		p.Weight, p.Height,
		describe(models.ActivityDescriptions[p.ActivityLevel], string(p.ActivityLevel)),
		describe(models.GoalDescriptions[p.Goal], string(p.Goal)),
		describe(models.DietDescriptions[p.DietPreference], string(p.DietPreference)))
	b.WriteString("CULTURAL CORE: South Indian Cuisine (Idli, Ragi, Moringa, Turmeric, Coconut, Curry leaves, Pearl Millet/Bajra, etc.).\n\n")
	b.WriteString("STRICT REQUIREMENTS:\n")
	b.WriteString("1. EQUAL BALANCE: The plan must provide optimal physical fuel (calories/macros) and peak cognitive fuel (neuro-nutrition).\n")
	b.WriteString("2. DUAL BENEFITS: For EVERY meal, you must explicitly state the 'physicalBenefit' (body) and the 'cognitiveBenefit' (brain).\n")
	b.WriteString("3. NEURO-POWER: Include ingredients like Curcumin (Turmeric), Omega-3s, Anthocyanins, and Flavanols common in healthy South Indian diets.\n")
	b.WriteString("4. BRAIN SCORE: Provide a 'brainHealthScore' (0-100).\n")
	b.WriteString("5. List 3 'Neuro-Power' ingredients for the day.\n\n")
	b.WriteString("Respond with a single JSON object with these keys: ")
	b.WriteString(strings.Join(planKeys, ", "))
	b.WriteString(". Each meal has: ")
	b.WriteString(strings.Join(mealKeys, ", "))
	b.WriteString(".\n")

	return SystemInstruction, b.String()
}

func describe(desc, fallback string) string {
	if desc == "" {
		return fallback
	}
	return desc
}
