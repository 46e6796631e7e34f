// ABOUTME: Tests for Profile model and its enums.
// ABOUTME: Validates descriptions, defaults, and field validation.
package models

import (
	"errors"
	"testing"
)

func TestDefaultProfileIsValid(t *testing.T) {
	p := DefaultProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("DefaultProfile().Validate() = %v, want nil", err)
	}
	if p.Weight != 70 || p.Height != 175 || p.Age != 25 {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr bool
	}{
		{"valid", func(p *Profile) {}, false},
		{"age zero", func(p *Profile) { p.Age = 0 }, true},
		{"age max", func(p *Profile) { p.Age = 120 }, false},
		{"age too high", func(p *Profile) { p.Age = 121 }, true},
		{"unknown gender", func(p *Profile) { p.Gender = "robot" }, true},
		{"gender other", func(p *Profile) { p.Gender = "other" }, false},
		{"zero weight", func(p *Profile) { p.Weight = 0 }, true},
		{"negative height", func(p *Profile) { p.Height = -1 }, true},
		{"bad activity", func(p *Profile) { p.ActivityLevel = "couch" }, true},
		{"bad goal", func(p *Profile) { p.Goal = "fame" }, true},
		{"bad diet", func(p *Profile) { p.DietPreference = "carnivore" }, true},
		{"keto", func(p *Profile) { p.DietPreference = DietKeto }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidProfile) {
					t.Errorf("expected ErrInvalidProfile, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAllEnumsHaveDescriptions(t *testing.T) {
	if len(AllActivityLevels) != 5 {
		t.Errorf("expected 5 activity levels, got %d", len(AllActivityLevels))
	}
	for _, a := range AllActivityLevels {
		if _, ok := ActivityDescriptions[a]; !ok {
			t.Errorf("ActivityLevel %s has no description", a)
		}
	}

	if len(AllGoals) != 4 {
		t.Errorf("expected 4 goals, got %d", len(AllGoals))
	}
	for _, g := range AllGoals {
		if _, ok := GoalDescriptions[g]; !ok {
			t.Errorf("Goal %s has no description", g)
		}
	}

	if len(AllDietPreferences) != 6 {
		t.Errorf("expected 6 diet preferences, got %d", len(AllDietPreferences))
	}
	for _, d := range AllDietPreferences {
		if _, ok := DietDescriptions[d]; !ok {
			t.Errorf("DietPreference %s has no description", d)
		}
	}
}

func TestParseEnums(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (string, bool)
		input string
		want  string
		ok    bool
	}{
		{"activity key", wrap(ParseActivityLevel), "very_active", "very_active", true},
		{"activity description", wrap(ParseActivityLevel), "Moderately Active (moderate exercise 3-5 days/week)", "moderate", true},
		{"activity mixed case", wrap(ParseActivityLevel), " SEDENTARY ", "sedentary", true},
		{"activity unknown", wrap(ParseActivityLevel), "Couch Potato", "", false},
		{"goal description", wrap(ParseGoal), "Healthy Living", "healthy_living", true},
		{"goal key", wrap(ParseGoal), "muscle_gain", "muscle_gain", true},
		{"diet any description", wrap(ParseDietPreference), "No specific preference", "any", true},
		{"diet gluten free", wrap(ParseDietPreference), "Gluten-Free", "gluten_free", true},
		{"diet unknown", wrap(ParseDietPreference), "carnivore", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.parse(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parse(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func wrap[T ~string](f func(string) (T, bool)) func(string) (string, bool) {
	return func(s string) (string, bool) {
		v, ok := f(s)
		return string(v), ok
	}
}

func TestProfileNormalized(t *testing.T) {
	p := Profile{
		Age:            30,
		Gender:         "Female",
		Weight:         60,
		Height:         165,
		ActivityLevel:  "Lightly Active (light exercise 1-3 days/week)",
		Goal:           "Energy Boost",
		DietPreference: "Vegan",
	}

	n := p.Normalized()
	if n.Gender != "female" || n.ActivityLevel != ActivityLight || n.Goal != GoalEnergyBoost || n.DietPreference != DietVegan {
		t.Errorf("unexpected normalized profile: %+v", n)
	}
	if err := n.Validate(); err != nil {
		t.Errorf("normalized profile should validate: %v", err)
	}
	if p.Goal != "Energy Boost" {
		t.Error("Normalized must not modify the receiver")
	}

	odd := Profile{Goal: "fame"}.Normalized()
	if odd.Goal != "fame" {
		t.Errorf("unknown values should pass through, got %q", odd.Goal)
	}
}
