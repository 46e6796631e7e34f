// ABOUTME: Profile model and the enums describing a user's lifestyle inputs.
// ABOUTME: Defines activity levels, goals, diet preferences, and validation.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ActivityLevel describes how physically active the user is.
type ActivityLevel string

const (
	ActivitySedentary   ActivityLevel = "sedentary"
	ActivityLight       ActivityLevel = "light"
	ActivityModerate    ActivityLevel = "moderate"
	ActivityVeryActive  ActivityLevel = "very_active"
	ActivityExtraActive ActivityLevel = "extra_active"
)

// ActivityDescriptions maps activity levels to their human-readable form.
var ActivityDescriptions = map[ActivityLevel]string{
	ActivitySedentary:   "Sedentary (office job, little exercise)",
	ActivityLight:       "Lightly Active (light exercise 1-3 days/week)",
	ActivityModerate:    "Moderately Active (moderate exercise 3-5 days/week)",
	ActivityVeryActive:  "Very Active (hard exercise 6-7 days/week)",
	ActivityExtraActive: "Extra Active (very hard physical job/training)",
}

// AllActivityLevels lists activity levels from least to most active.
var AllActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLight, ActivityModerate, ActivityVeryActive, ActivityExtraActive,
}

// Goal is the outcome the user wants the plan to support.
type Goal string

const (
	GoalHealthyLiving Goal = "healthy_living"
	GoalWeightLoss    Goal = "weight_loss"
	GoalMuscleGain    Goal = "muscle_gain"
	GoalEnergyBoost   Goal = "energy_boost"
)

// GoalDescriptions maps goals to their human-readable form.
var GoalDescriptions = map[Goal]string{
	GoalHealthyLiving: "Healthy Living",
	GoalWeightLoss:    "Weight Loss",
	GoalMuscleGain:    "Muscle Gain",
	GoalEnergyBoost:   "Energy Boost",
}

// AllGoals lists every supported goal.
var AllGoals = []Goal{GoalHealthyLiving, GoalWeightLoss, GoalMuscleGain, GoalEnergyBoost}

// DietPreference restricts which foods a plan may use.
type DietPreference string

const (
	DietAny        DietPreference = "any"
	DietVegetarian DietPreference = "vegetarian"
	DietVegan      DietPreference = "vegan"
	DietKeto       DietPreference = "keto"
	DietPaleo      DietPreference = "paleo"
	DietGlutenFree DietPreference = "gluten_free"
)

// DietDescriptions maps diet preferences to their human-readable form.
var DietDescriptions = map[DietPreference]string{
	DietAny:        "No specific preference",
	DietVegetarian: "Vegetarian",
	DietVegan:      "Vegan",
	DietKeto:       "Keto",
	DietPaleo:      "Paleo",
	DietGlutenFree: "Gluten-Free",
}

// AllDietPreferences lists every supported diet preference.
var AllDietPreferences = []DietPreference{
	DietAny, DietVegetarian, DietVegan, DietKeto, DietPaleo, DietGlutenFree,
}

// AllGenders lists the accepted gender values.
var AllGenders = []string{"male", "female", "other"}

const (
	MinAge = 1
	MaxAge = 120
)

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is one user's biometric and lifestyle inputs.
// Treat it as immutable once constructed.
type Profile struct {
	Age            int            `json:"age" yaml:"age"`
	Gender         string         `json:"gender" yaml:"gender"`
	Weight         float64        `json:"weight" yaml:"weight"` // kilograms
	Height         float64        `json:"height" yaml:"height"` // centimeters
	ActivityLevel  ActivityLevel  `json:"activityLevel" yaml:"activityLevel"`
	Goal           Goal           `json:"goal" yaml:"goal"`
	DietPreference DietPreference `json:"dietPreference" yaml:"dietPreference"`
}

// DefaultProfile returns the profile the input form starts from.
func DefaultProfile() Profile {
	return Profile{
		Age:            25,
		Gender:         "male",
		Weight:         70,
		Height:         175,
		ActivityLevel:  ActivityModerate,
		Goal:           GoalHealthyLiving,
		DietPreference: DietAny,
	}
}

// Validate checks every field against its allowed range or set.
func (p Profile) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d, got %d", ErrInvalidProfile, MinAge, MaxAge, p.Age)
	}
	if !IsValidGender(p.Gender) {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, p.Gender)
	}
	if !(p.Weight > 0) {
		return fmt.Errorf("%w: weight must be positive, got %v", ErrInvalidProfile, p.Weight)
	}
	if !(p.Height > 0) {
		return fmt.Errorf("%w: height must be positive, got %v", ErrInvalidProfile, p.Height)
	}
	if !IsValidActivityLevel(string(p.ActivityLevel)) {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, p.ActivityLevel)
	}
	if !IsValidGoal(string(p.Goal)) {
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}
	if !IsValidDietPreference(string(p.DietPreference)) {
		return fmt.Errorf("%w: unknown diet preference %q", ErrInvalidProfile, p.DietPreference)
	}
	return nil
}

// IsValidGender checks if a string is an accepted gender value.
func IsValidGender(s string) bool {
	for _, g := range AllGenders {
		if g == s {
			return true
		}
	}
	return false
}

// IsValidActivityLevel checks if a string is a valid activity level.
func IsValidActivityLevel(s string) bool {
	_, ok := ActivityDescriptions[ActivityLevel(s)]
	return ok
}

// IsValidGoal checks if a string is a valid goal.
func IsValidGoal(s string) bool {
	_, ok := GoalDescriptions[Goal(s)]
	return ok
}

// IsValidDietPreference checks if a string is a valid diet preference.
func IsValidDietPreference(s string) bool {
	_, ok := DietDescriptions[DietPreference(s)]
	return ok
}

// ParseActivityLevel accepts a key ("very_active") or its description
// ("Very Active (hard exercise 6-7 days/week)"), ignoring case and surrounding space.
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	return parseEnum(s, AllActivityLevels, ActivityDescriptions)
}

// ParseGoal accepts a goal key or its description.
func ParseGoal(s string) (Goal, bool) {
	return parseEnum(s, AllGoals, GoalDescriptions)
}

// ParseDietPreference accepts a diet key or its description.
func ParseDietPreference(s string) (DietPreference, bool) {
	return parseEnum(s, AllDietPreferences, DietDescriptions)
}

func parseEnum[T ~string](s string, all []T, descriptions map[T]string) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range all {
		if strings.EqualFold(s, string(v)) || strings.EqualFold(s, descriptions[v]) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Normalized maps descriptions and mixed-case values onto their canonical keys.
// Unrecognized values are left as they are for Validate to report.
func (p Profile) Normalized() Profile {
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	if a, ok := ParseActivityLevel(string(p.ActivityLevel)); ok {
		p.ActivityLevel = a
	}
	if g, ok := ParseGoal(string(p.Goal)); ok {
		p.Goal = g
	}
	if d, ok := ParseDietPreference(string(p.DietPreference)); ok {
		p.DietPreference = d
	}
	return p
}
