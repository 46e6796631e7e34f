// ABOUTME: Extracts and shape-checks a plan document from raw model text.
// ABOUTME: Tolerates code fences and surrounding prose; requires every plan key.
package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/nutriwise/internal/models"
)

// jsonKind is the JSON type a required field must carry.
type jsonKind int

const (
	kindNull jsonKind = iota
	kindNumber
	kindString
	kindArray
	kindObject
	kindBool
)

func (k jsonKind) String() string {
	switch k {
	case kindNumber:
		return "a number"
	case kindString:
		return "a string"
	case kindArray:
		return "an array"
	case kindObject:
		return "an object"
	case kindBool:
		return "a boolean"
	default:
		return "null"
	}
}

type field struct {
	key  string
	kind jsonKind
}

var (
	planFields = []field{
		{"dailyCalories", kindNumber},
		{"macroRatio", kindObject},
		{"meals", kindArray},
		{"generalTips", kindArray},
		{"scientificReasoning", kindString},
		{"brainHealthInsight", kindString},
		{"brainHealthScore", kindNumber},
		{"neuroPowerIngredients", kindArray},
	}
	macroFields = []field{
		{"protein", kindNumber},
		{"carbs", kindNumber},
		{"fats", kindNumber},
	}
	mealFields = []field{
		{"type", kindString},
		{"name", kindString},
		{"description", kindString},
		{"ingredients", kindArray},
		{"ingredientBenefits", kindArray},
		{"calories", kindNumber},
		{"protein", kindNumber},
		{"carbs", kindNumber},
		{"fats", kindNumber},
		{"physicalBenefit", kindString},
		{"cognitiveBenefit", kindString},
		{"mentalHealthImpact", kindString},
	}
	benefitFields = []field{
		{"ingredient", kindString},
		{"benefit", kindString},
	}
)

// Required key names per object, in schema order.
var (
	planKeys    = fieldKeys(planFields)
	macroKeys   = fieldKeys(macroFields)
	mealKeys    = fieldKeys(mealFields)
	benefitKeys = fieldKeys(benefitFields)
)

func fieldKeys(fields []field) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// ParsePlan decodes raw model output into a validated plan.
// All errors wrap ErrGatewayFailure and ErrInvalidOutput.
func ParsePlan(raw string) (*models.Plan, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, failure(ErrInvalidOutput, "no response content received")
	}

	doc := extractJSONBlock(stripCodeFences(raw))
	if doc == "" {
		return nil, failure(ErrInvalidOutput, "no JSON object found in response")
	}

	if err := checkShape([]byte(doc)); err != nil {
		return nil, failure(ErrInvalidOutput, "%v", err)
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(doc), &plan); err != nil {
		return nil, failure(ErrInvalidOutput, "%v", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, failure(ErrInvalidOutput, "%v", err)
	}
	return &plan, nil
}

// checkShape verifies every required key is present, non-null, and of the
// expected JSON type at each nesting level.
func checkShape(doc []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return err
	}
	if err := requireFields("plan", top, planFields); err != nil {
		return err
	}

	var macro map[string]json.RawMessage
	if err := json.Unmarshal(top["macroRatio"], &macro); err != nil {
		return fmt.Errorf("macroRatio is not an object")
	}
	if err := requireFields("macroRatio", macro, macroFields); err != nil {
		return err
	}

	if err := requireElements("generalTips", top["generalTips"], kindString); err != nil {
		return err
	}
	if err := requireElements("neuroPowerIngredients", top["neuroPowerIngredients"], kindString); err != nil {
		return err
	}

	var meals []map[string]json.RawMessage
	if err := json.Unmarshal(top["meals"], &meals); err != nil {
		return fmt.Errorf("meals is not an array of objects")
	}
	for i, meal := range meals {
		where := fmt.Sprintf("meals[%d]", i)
		if meal == nil {
			return fmt.Errorf("%s is null", where)
		}
		if err := requireFields(where, meal, mealFields); err != nil {
			return err
		}
		if err := requireElements(where+".ingredients", meal["ingredients"], kindString); err != nil {
			return err
		}

		var benefits []map[string]json.RawMessage
		if err := json.Unmarshal(meal["ingredientBenefits"], &benefits); err != nil {
			return fmt.Errorf("%s.ingredientBenefits is not an array of objects", where)
		}
		for j, b := range benefits {
			bwhere := fmt.Sprintf("%s.ingredientBenefits[%d]", where, j)
			if b == nil {
				return fmt.Errorf("%s is null", bwhere)
			}
			if err := requireFields(bwhere, b, benefitFields); err != nil {
				return err
			}
		}
	}
	return nil
}

// requireFields reports absent or null keys first, then keys of the wrong JSON type.
func requireFields(where string, obj map[string]json.RawMessage, fields []field) error {
	var missing []string
	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok || kindOf(raw) == kindNull {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s missing %s", where, strings.Join(missing, ", "))
	}

	for _, f := range fields {
		if got := kindOf(obj[f.key]); got != f.kind {
			return fmt.Errorf("%s.%s must be %s, got %s", where, f.key, f.kind, got)
		}
	}
	return nil
}

// requireElements checks that every element of a JSON array has the given kind.
func requireElements(where string, raw json.RawMessage, kind jsonKind) error {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("%s is not an array", where)
	}
	for i, item := range items {
		if got := kindOf(item); got != kind {
			return fmt.Errorf("%s[%d] must be %s, got %s", where, i, kind, got)
		}
	}
	return nil
}

// kindOf classifies a raw JSON value by its first significant byte.
func kindOf(raw json.RawMessage) jsonKind {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return kindNull
	}
	switch trimmed[0] {
	case '"':
		return kindString
	case '{':
		return kindObject
	case '[':
		return kindArray
	case 't', 'f':
		return kindBool
	case 'n':
		return kindNull
	default:
		return kindNumber
	}
}

// stripCodeFences drops markdown fence lines such as ```json.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// extractJSONBlock finds the first balanced { ... } block in the text.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
