// ABOUTME: Gemini generateContent client for plan generation.
// ABOUTME: Requests JSON output constrained by a response schema mirroring Plan.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/harperreed/nutriwise/internal/models"
)

// GeminiClient implements Gateway using the Gemini REST API.
type GeminiClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewGeminiClient creates a Gemini-backed Gateway.
func NewGeminiClient(cfg Config, obs Observer) *GeminiClient {
	cfg.Provider = ProviderGemini
	if obs == nil {
		obs = NoopObserver{}
	}
	return &GeminiClient{cfg: cfg.withDefaults(), http: newHTTPClient(), observer: obs}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiSchema struct {
	Type       string                   `json:"type"`
	Properties map[string]*geminiSchema `json:"properties,omitempty"`
	Items      *geminiSchema            `json:"items,omitempty"`
	Required   []string                 `json:"required,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
	Temperature      float64       `json:"temperature,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Generate asks Gemini for a plan tailored to profile.
func (c *GeminiClient) Generate(ctx context.Context, profile models.Profile) (*models.Plan, error) {
	system, user := BuildPrompt(profile)
	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: user}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   planSchema(),
			Temperature:      c.cfg.Temperature,
		},
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.Endpoint, c.cfg.Model)
	header := http.Header{}
	header.Set("x-goog-api-key", c.cfg.APIKey)

	return exchange(ctx, c.cfg, c.observer, func(ctx context.Context) (string, error) {
		data, err := postJSON(ctx, c.http, url, header, body)
		if err != nil {
			return "", err
		}
		var resp geminiResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", failure(ErrInvalidOutput, "decode response: %v", err)
		}
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", failure(ErrInvalidOutput, "prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		if len(resp.Candidates) == 0 {
			return "", failure(ErrInvalidOutput, "no response content received")
		}
		var text strings.Builder
		for _, p := range resp.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
		return text.String(), nil
	})
}

func planSchema() *geminiSchema {
	str := func() *geminiSchema { return &geminiSchema{Type: "STRING"} }
	num := func() *geminiSchema { return &geminiSchema{Type: "NUMBER"} }
	strList := func() *geminiSchema { return &geminiSchema{Type: "ARRAY", Items: str()} }

	benefit := &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]*geminiSchema{
			"ingredient": str(),
			"benefit":    str(),
		},
		Required: benefitKeys,
	}
	meal := &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]*geminiSchema{
			"type":               str(),
			"name":               str(),
			"description":        str(),
			"ingredients":        strList(),
			"ingredientBenefits": {Type: "ARRAY", Items: benefit},
			"calories":           num(),
			"protein":            num(),
			"carbs":              num(),
			"fats":               num(),
			"physicalBenefit":    str(),
			"cognitiveBenefit":   str(),
			"mentalHealthImpact": str(),
		},
		Required: mealKeys,
	}
	return &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]*geminiSchema{
			"dailyCalories": num(),
			"macroRatio": {
				Type: "OBJECT",
				Properties: map[string]*geminiSchema{
					"protein": num(),
					"carbs":   num(),
					"fats":    num(),
				},
				Required: macroKeys,
			},
			"meals":                 {Type: "ARRAY", Items: meal},
			"generalTips":           strList(),
			"scientificReasoning":   str(),
			"brainHealthInsight":    str(),
			"brainHealthScore":      num(),
			"neuroPowerIngredients": strList(),
		},
		Required: planKeys,
	}
}
