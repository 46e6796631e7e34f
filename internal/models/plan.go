// ABOUTME: Plan, Meal, and HistoryEntry models for generated nutrition reports.
// ABOUTME: Plans are produced by the gateway and never mutated afterwards.
package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPlan is returned when a plan document fails shape validation.
var ErrInvalidPlan = errors.New("invalid plan")

// MacroRatio is the protein/carbs/fats split in percent.
// The parts are expected to sum near 100 but this is not enforced.
type MacroRatio struct {
	Protein float64 `json:"protein" yaml:"protein"`
	Carbs   float64 `json:"carbs" yaml:"carbs"`
	Fats    float64 `json:"fats" yaml:"fats"`
}

// IngredientBenefit explains why one ingredient is in a meal.
type IngredientBenefit struct {
	Ingredient string `json:"ingredient" yaml:"ingredient"`
	Benefit    string `json:"benefit" yaml:"benefit"`
}

// Meal is one meal of the day. Macros are in grams.
type Meal struct {
	Type               string              `json:"type" yaml:"type"`
	Name               string              `json:"name" yaml:"name"`
	Description        string              `json:"description" yaml:"description"`
	Ingredients        []string            `json:"ingredients" yaml:"ingredients"`
	IngredientBenefits []IngredientBenefit `json:"ingredientBenefits" yaml:"ingredientBenefits"`
	Calories           float64             `json:"calories" yaml:"calories"`
	Protein            float64             `json:"protein" yaml:"protein"`
	Carbs              float64             `json:"carbs" yaml:"carbs"`
	Fats               float64             `json:"fats" yaml:"fats"`
	PhysicalBenefit    string              `json:"physicalBenefit" yaml:"physicalBenefit"`
	CognitiveBenefit   string              `json:"cognitiveBenefit" yaml:"cognitiveBenefit"`
	MentalHealthImpact string              `json:"mentalHealthImpact" yaml:"mentalHealthImpact"`
}

// Plan is one generated nutrition report. Meals are in chronological order.
type Plan struct {
	DailyCalories         float64    `json:"dailyCalories" yaml:"dailyCalories"`
	MacroRatio            MacroRatio `json:"macroRatio" yaml:"macroRatio"`
	Meals                 []Meal     `json:"meals" yaml:"meals"`
	GeneralTips           []string   `json:"generalTips" yaml:"generalTips"`
	ScientificReasoning   string     `json:"scientificReasoning" yaml:"scientificReasoning"`
	BrainHealthInsight    string     `json:"brainHealthInsight" yaml:"brainHealthInsight"`
	BrainHealthScore      float64    `json:"brainHealthScore" yaml:"brainHealthScore"`
	NeuroPowerIngredients []string   `json:"neuroPowerIngredients" yaml:"neuroPowerIngredients"`
}

// Validate rejects negative energy and macro values.
// The macro split sum and brain health score range are passed through unchecked.
func (p *Plan) Validate() error {
	if p.DailyCalories < 0 {
		return fmt.Errorf("%w: dailyCalories is negative", ErrInvalidPlan)
	}
	if p.MacroRatio.Protein < 0 || p.MacroRatio.Carbs < 0 || p.MacroRatio.Fats < 0 {
		return fmt.Errorf("%w: macroRatio has a negative part", ErrInvalidPlan)
	}
	for i, m := range p.Meals {
		if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fats < 0 {
			return fmt.Errorf("%w: meal %d (%s) has a negative value", ErrInvalidPlan, i, m.Name)
		}
	}
	return nil
}

// TotalProtein sums protein grams across all meals.
func (p *Plan) TotalProtein() float64 {
	var total float64
	for _, m := range p.Meals {
		total += m.Protein
	}
	return total
}

// HistoryEntry pairs a plan with the profile it was generated for.
type HistoryEntry struct {
	ID        string  `json:"id,omitempty" yaml:"id,omitempty"`
	Timestamp int64   `json:"timestamp" yaml:"timestamp"` // milliseconds since epoch
	Profile   Profile `json:"profile" yaml:"profile"`
	Plan      Plan    `json:"plan" yaml:"plan"`
}

// Time returns the entry timestamp as a time.Time.
func (e HistoryEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// ShortID returns the 8-character ID prefix shown in listings.
func (e HistoryEntry) ShortID() string {
	if len(e.ID) < 8 {
		return e.ID
	}
	return e.ID[:8]
}
