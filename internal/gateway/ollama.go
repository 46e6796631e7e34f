// ABOUTME: Ollama client for plan generation against a local model.
// ABOUTME: Uses /api/generate with JSON output format and streaming disabled.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/harperreed/nutriwise/internal/models"
)

// OllamaClient implements Gateway using the Ollama HTTP API.
type OllamaClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates an Ollama-backed Gateway.
func NewOllamaClient(cfg Config, obs Observer) *OllamaClient {
	cfg.Provider = ProviderOllama
	if obs == nil {
		obs = NoopObserver{}
	}
	return &OllamaClient{cfg: cfg.withDefaults(), http: newHTTPClient(), observer: obs}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Format  string        `json:"format"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// Generate asks the local model for a plan tailored to profile.
func (c *OllamaClient) Generate(ctx context.Context, profile models.Profile) (*models.Plan, error) {
	system, user := BuildPrompt(profile)
	body := ollamaRequest{
		Model:   c.cfg.Model,
		System:  system,
		Prompt:  user,
		Format:  "json",
		Stream:  false,
		Options: ollamaOptions{Temperature: c.cfg.Temperature},
	}
	url := c.cfg.Endpoint + "/api/generate"

	return exchange(ctx, c.cfg, c.observer, func(ctx context.Context) (string, error) {
		data, err := postJSON(ctx, c.http, url, nil, body)
		if err != nil {
			return "", err
		}
		var resp ollamaResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", failure(ErrInvalidOutput, "decode response: %v", err)
		}
		return resp.Response, nil
	})
}
