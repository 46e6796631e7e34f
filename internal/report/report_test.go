// ABOUTME: Tests for terminal, markdown, and export rendering.
// ABOUTME: Color is disabled so assertions can match plain text.
package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nutriwise/internal/models"
	"github.com/harperreed/nutriwise/internal/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var fixedNow = time.Date(2025, 4, 10, 18, 0, 0, 0, time.UTC)

func sampleEntry(id string, ts time.Time) models.HistoryEntry {
	return models.HistoryEntry{
		ID:        id,
		Timestamp: ts.UnixMilli(),
		Profile:   models.DefaultProfile(),
		Plan: models.Plan{
			DailyCalories: 2200,
			MacroRatio:    models.MacroRatio{Protein: 25, Carbs: 50, Fats: 25},
			Meals: []models.Meal{
				{
					Type:               "Breakfast",
					Name:               "Ragi Dosa | Chutney",
					Description:        "Crisp finger millet crepe",
					Ingredients:        []string{"ragi", "coconut"},
					IngredientBenefits: []models.IngredientBenefit{{Ingredient: "coconut", Benefit: "MCTs for quick brain fuel"}},
					Calories:           420,
					Protein:            20,
					Carbs:              60,
					Fats:               12.5,
					PhysicalBenefit:    "Calcium for bones",
					CognitiveBenefit:   "Slow glucose release",
					MentalHealthImpact: "Grounded and calm",
				},
				{
					Type:               "Dinner",
					Name:               "Moringa Dal",
					Ingredients:        []string{"moringa", "toor dal"},
					IngredientBenefits: []models.IngredientBenefit{{Ingredient: "moringa", Benefit: "iron"}},
					Calories:           500,
					Protein:            15,
				},
			},
			GeneralTips:           []string{"Walk after meals", "Sleep by 10pm"},
			ScientificReasoning:   "Millets have a low glycemic index.",
			BrainHealthInsight:    "Curcumin supports neuroplasticity.",
			BrainHealthScore:      87,
			NeuroPowerIngredients: []string{"Turmeric", "Walnuts", "Curry leaves"},
		},
	}
}

func TestWritePlan(t *testing.T) {
	var buf bytes.Buffer
	WritePlan(&buf, sampleEntry("abcdef0123", fixedNow))
	out := buf.String()

	for _, want := range []string{
		"Holistic Energy Plan",
		"abcdef01",
		"Neuro Score: 87/100",
		"* Turmeric",
		"2200 kcal/day  (protein 25%, carbs 50%, fats 25%)",
		`"Curcumin supports neuroplasticity."`,
		"BREAKFAST  Ragi Dosa | Chutney  420 kcal",
		"P 20g  C 60g  F 12.5g",
		"Body: Calcium for bones",
		"Brain: Slow glucose release",
		"- coconut: MCTs for quick brain fuel",
		"1. Walk after meals",
		"2. Sleep by 10pm",
		"Millets have a low glycemic index.",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteHistoryNewestFirst(t *testing.T) {
	var buf bytes.Buffer
	WriteHistory(&buf, []models.HistoryEntry{
		sampleEntry("11111111aaaa", fixedNow),
		sampleEntry("22222222bbbb", fixedNow.Add(time.Hour)),
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "22222222"))
	assert.True(t, strings.HasPrefix(lines[1], "11111111"))
	assert.Contains(t, lines[0], "2200 kcal")
	assert.Contains(t, lines[0], "score  87")
}

func TestWriteHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteHistory(&buf, nil)
	assert.Equal(t, "No plans saved yet.\n", buf.String())
}

func TestWriteTrends(t *testing.T) {
	var buf bytes.Buffer
	WriteTrends(&buf, []trend.Point{{DateLabel: "Apr 10", Calories: 2200, Protein: 35, Weight: 70.5}})

	out := buf.String()
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "Apr 10")
	assert.Contains(t, out, "2200")
	assert.Contains(t, out, "70.5")

	buf.Reset()
	WriteTrends(&buf, nil)
	assert.Equal(t, "No history to chart yet.\n", buf.String())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "2200", FormatNumber(2200))
	assert.Equal(t, "12.5", FormatNumber(12.5))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "0.3", FormatNumber(0.333))
}

func TestMarkdown(t *testing.T) {
	entries := []models.HistoryEntry{
		sampleEntry("aaaaaaaa1", fixedNow.Add(-24*time.Hour)),
		sampleEntry("bbbbbbbb2", fixedNow),
	}

	md := Markdown(entries, fixedNow)

	assert.True(t, strings.HasPrefix(md, "# NutriWise Export - 2025-04-10\n"))
	assert.Contains(t, md, "| Apr 9 | 2200 | 35 | 70 |")
	assert.Contains(t, md, "| Apr 10 | 2200 | 35 | 70 |")
	assert.Contains(t, md, `| Breakfast | Ragi Dosa \| Chutney | 420 | 20 | 60 | 12.5 |`)
	assert.Contains(t, md, "- **Brain:** Slow glucose release")
	assert.Less(t, strings.Index(md, "## Plan bbbbbbbb"), strings.Index(md, "## Plan aaaaaaaa"), "newest first")
}

func TestMarkdownEmpty(t *testing.T) {
	md := Markdown(nil, fixedNow)
	assert.Contains(t, md, "No plans saved yet.")
}

func TestPlanMarkdown(t *testing.T) {
	md := PlanMarkdown(sampleEntry("cccccccc3", fixedNow))
	assert.Contains(t, md, "## Plan cccccccc")
	assert.Contains(t, md, "### Breakfast: Ragi Dosa | Chutney")
	assert.Contains(t, md, "### Scientific Reasoning")
}

func TestExportJSONShape(t *testing.T) {
	data, err := ExportJSON([]models.HistoryEntry{sampleEntry("x1", fixedNow)}, fixedNow)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, ExportVersion, doc["version"])
	assert.Equal(t, ExportTool, doc["tool"])
	assert.Equal(t, "2025-04-10T18:00:00Z", doc["exported_at"])
	assert.Len(t, doc["entries"], 1)
}

func TestExportEmptyHasEntriesArray(t *testing.T) {
	data, err := ExportJSON(nil, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries": []`)
}

func TestImportRoundTrip(t *testing.T) {
	entries := []models.HistoryEntry{
		sampleEntry("first", fixedNow.Add(-time.Hour)),
		sampleEntry("second", fixedNow),
	}

	for name, export := range map[string]func([]models.HistoryEntry, time.Time) ([]byte, error){
		"json": ExportJSON,
		"yaml": ExportYAML,
	} {
		t.Run(name, func(t *testing.T) {
			data, err := export(entries, fixedNow)
			require.NoError(t, err)

			got, err := ParseImport(data)
			require.NoError(t, err)
			assert.Equal(t, entries, got)
		})
	}
}

func TestImportRawHistoryArray(t *testing.T) {
	raw, err := json.Marshal([]models.HistoryEntry{sampleEntry("", fixedNow)})
	require.NoError(t, err)

	got, err := ParseImport(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2200.0, got[0].Plan.DailyCalories)
}

func TestImportLegacyDisplayValues(t *testing.T) {
	// Saved histories from the browser app store enum display strings.
	raw := []byte(`[{
		"timestamp": 1741075200000,
		"profile": {
			"age": 34, "gender": "male", "weight": 80, "height": 182,
			"activityLevel": "Moderately Active (moderate exercise 3-5 days/week)",
			"goal": "Healthy Living",
			"dietPreference": "No specific preference"
		},
		"plan": {
			"dailyCalories": 2500,
			"macroRatio": {"protein": 25, "carbs": 50, "fats": 25},
			"meals": [],
			"generalTips": [],
			"scientificReasoning": "",
			"brainHealthInsight": "",
			"brainHealthScore": 80,
			"neuroPowerIngredients": []
		}
	}]`)

	got, err := ParseImport(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.ActivityModerate, got[0].Profile.ActivityLevel)
	assert.Equal(t, models.GoalHealthyLiving, got[0].Profile.Goal)
	assert.Equal(t, models.DietAny, got[0].Profile.DietPreference)
	assert.Equal(t, 2500.0, got[0].Plan.DailyCalories)
}

func TestImportRejects(t *testing.T) {
	bad := sampleEntry("z", fixedNow)
	bad.Profile.Age = 0
	badDoc, _ := json.Marshal(NewExport([]models.HistoryEntry{bad}, fixedNow))

	noTime := sampleEntry("z", fixedNow)
	noTime.Timestamp = 0
	noTimeDoc, _ := json.Marshal([]models.HistoryEntry{noTime})

	tests := map[string][]byte{
		"empty":         []byte("  "),
		"broken json":   []byte(`{"entries": [`),
		"broken yaml":   []byte("entries: [\n  - : :"),
		"invalid entry": badDoc,
		"no timestamp":  noTimeDoc,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseImport(data)
			assert.ErrorIs(t, err, ErrInvalidImport)
		})
	}
}
