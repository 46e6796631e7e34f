// ABOUTME: Gateway contract and provider factory for plan generation.
// ABOUTME: Shared request plumbing: timeout, transport, error classification.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/harperreed/nutriwise/internal/models"
)

// Gateway turns a profile into a validated plan or fails.
type Gateway interface {
	Generate(ctx context.Context, profile models.Profile) (*models.Plan, error)
}

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// AllProviders lists every supported provider.
var AllProviders = []string{ProviderGemini, ProviderOllama}

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel    = "gemini-3-flash-preview"
	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultOllamaModel    = "llama3.2"
	DefaultTimeout        = 60 * time.Second
	DefaultTemperature    = 0.7
)

// Config selects and tunes a provider. Zero values take provider defaults.
type Config struct {
	Provider    string
	Model       string
	Endpoint    string
	APIKey      string
	Timeout     time.Duration
	Temperature float64
}

// withDefaults fills unset fields for the configured provider.
func (c Config) withDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderGemini
	}
	switch c.Provider {
	case ProviderGemini:
		if c.Model == "" {
			c.Model = DefaultGeminiModel
		}
		if c.Endpoint == "" {
			c.Endpoint = DefaultGeminiEndpoint
		}
	case ProviderOllama:
		if c.Model == "" {
			c.Model = DefaultOllamaModel
		}
		if c.Endpoint == "" {
			c.Endpoint = DefaultOllamaEndpoint
		}
	}
	c.Endpoint = strings.TrimRight(c.Endpoint, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	return c
}

// New builds the Gateway for cfg.Provider. A nil observer discards events.
func New(cfg Config, obs Observer) (Gateway, error) {
	cfg = cfg.withDefaults()
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: set GEMINI_API_KEY or api_key in config", ErrMissingAPIKey)
		}
		return NewGeminiClient(cfg, obs), nil
	case ProviderOllama:
		return NewOllamaClient(cfg, obs), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownProvider, cfg.Provider, strings.Join(AllProviders, ", "))
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

// exchange performs one call: fetch text under the timeout, parse it into a
// plan, and report the outcome to the observer.
func exchange(ctx context.Context, cfg Config, obs Observer, fetch func(context.Context) (string, error)) (*models.Plan, error) {
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	text, err := fetch(callCtx)
	var plan *models.Plan
	if err == nil {
		plan, err = ParsePlan(text)
	}
	if err != nil {
		err = classify(callCtx, err)
	}

	obs.OnCallComplete(CallEvent{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		Latency:   time.Since(start),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// classify maps transport errors onto the gateway sentinels.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, ErrGatewayFailure) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return failure(ErrTimeout, "%v", err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", ErrGatewayFailure, context.Canceled)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return failure(ErrUnavailable, "%v", err)
	}
	return fmt.Errorf("%w: %v", ErrGatewayFailure, err)
}

// postJSON sends body to url and returns the raw 200 response body.
func postJSON(ctx context.Context, client *http.Client, url string, header http.Header, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, failure(ErrBadStatus, "status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	return respBody, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
