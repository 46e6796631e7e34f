// ABOUTME: HTTP tests for the Gemini and Ollama clients.
// ABOUTME: Uses httptest servers to cover success and each failure kind.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nutriwise/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(t *testing.T) CallEvent {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.events)
	return o.events[len(o.events)-1]
}

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func geminiServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Config) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, Config{Provider: ProviderGemini, Endpoint: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second}
}

func TestGeminiGenerateSuccess(t *testing.T) {
	_, cfg := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-3-flash-preview:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, SystemInstruction, req.SystemInstruction.Parts[0].Text)
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "25-year-old male")
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
		require.NotNil(t, req.GenerationConfig.ResponseSchema)
		assert.Equal(t, "OBJECT", req.GenerationConfig.ResponseSchema.Type)
		assert.ElementsMatch(t, planKeys, req.GenerationConfig.ResponseSchema.Required)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiReply(validPlanJSON))
	})
	obs := &recordingObserver{}

	plan, err := NewGeminiClient(cfg, obs).Generate(context.Background(), models.DefaultProfile())

	require.NoError(t, err)
	assert.Equal(t, 2200.0, plan.DailyCalories)
	assert.Len(t, plan.Meals, 2)

	ev := obs.last(t)
	assert.True(t, ev.Success)
	assert.Equal(t, ProviderGemini, ev.Provider)
	assert.Equal(t, DefaultGeminiModel, ev.Model)
	assert.Empty(t, ev.ErrorCode)
}

func TestGeminiGenerateFailures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind error
		wantCode string
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
			},
			wantKind: ErrBadStatus,
			wantCode: "BAD_STATUS",
		},
		{
			name: "empty text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(geminiReply(""))
			},
			wantKind: ErrInvalidOutput,
			wantCode: "INVALID_OUTPUT",
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
			wantKind: ErrInvalidOutput,
			wantCode: "INVALID_OUTPUT",
		},
		{
			name: "blocked prompt",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
			},
			wantKind: ErrInvalidOutput,
			wantCode: "INVALID_OUTPUT",
		},
		{
			name: "missing field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				doc := strings.Replace(validPlanJSON, `"scientificReasoning": "Millets stabilize blood sugar.",`, "", 1)
				_ = json.NewEncoder(w).Encode(geminiReply(doc))
			},
			wantKind: ErrInvalidOutput,
			wantCode: "INVALID_OUTPUT",
		},
		{
			name: "wrong numeric type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				doc := strings.Replace(validPlanJSON, `"brainHealthScore": 88`, `"brainHealthScore": "high"`, 1)
				_ = json.NewEncoder(w).Encode(geminiReply(doc))
			},
			wantKind: ErrInvalidOutput,
			wantCode: "INVALID_OUTPUT",
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			wantKind: ErrInvalidOutput,
			wantCode: "INVALID_OUTPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfg := geminiServer(t, tt.handler)
			obs := &recordingObserver{}

			plan, err := NewGeminiClient(cfg, obs).Generate(context.Background(), models.DefaultProfile())

			assert.Nil(t, plan)
			assert.ErrorIs(t, err, ErrGatewayFailure)
			assert.ErrorIs(t, err, tt.wantKind)
			ev := obs.last(t)
			assert.False(t, ev.Success)
			assert.Equal(t, tt.wantCode, ev.ErrorCode)
		})
	}
}

func TestGeminiGenerateTimeout(t *testing.T) {
	_, cfg := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	cfg.Timeout = 50 * time.Millisecond
	obs := &recordingObserver{}

	_, err := NewGeminiClient(cfg, obs).Generate(context.Background(), models.DefaultProfile())

	assert.ErrorIs(t, err, ErrGatewayFailure)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "TIMEOUT", obs.last(t).ErrorCode)
}

func TestGeminiGenerateUnavailable(t *testing.T) {
	cfg := Config{Provider: ProviderGemini, Endpoint: "http://127.0.0.1:1", APIKey: "k", Timeout: 2 * time.Second}

	_, err := NewGeminiClient(cfg, nil).Generate(context.Background(), models.DefaultProfile())

	assert.ErrorIs(t, err, ErrGatewayFailure)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeminiGenerateCanceled(t *testing.T) {
	_, cfg := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGeminiClient(cfg, nil).Generate(ctx, models.DefaultProfile())

	assert.ErrorIs(t, err, ErrGatewayFailure)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOllamaGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultOllamaModel, req.Model)
		assert.Equal(t, "json", req.Format)
		assert.False(t, req.Stream)
		assert.Equal(t, SystemInstruction, req.System)
		assert.Contains(t, req.Prompt, "South Indian Cuisine")

		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: DefaultOllamaModel, Response: "```json\n" + validPlanJSON + "\n```"})
	}))
	defer srv.Close()

	client := NewOllamaClient(Config{Endpoint: srv.URL + "/"}, nil)
	plan, err := client.Generate(context.Background(), models.DefaultProfile())

	require.NoError(t, err)
	assert.Equal(t, 2200.0, plan.DailyCalories)
}

func TestOllamaGenerateBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(Config{Endpoint: srv.URL}, nil).Generate(context.Background(), models.DefaultProfile())

	assert.ErrorIs(t, err, ErrGatewayFailure)
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.Contains(t, err.Error(), "model not found")
}

func TestNew(t *testing.T) {
	gw, err := New(Config{APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, gw)

	gw, err = New(Config{Provider: ProviderOllama}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, gw)

	_, err = New(Config{Provider: ProviderGemini}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(Config{Provider: "openai"}, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.Model)
	assert.Equal(t, DefaultGeminiEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)

	cfg = Config{Provider: ProviderOllama, Model: "qwen2.5", Timeout: time.Second}.withDefaults()
	assert.Equal(t, "qwen2.5", cfg.Model)
	assert.Equal(t, DefaultOllamaEndpoint, cfg.Endpoint)
	assert.Equal(t, time.Second, cfg.Timeout)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	obs := NewLogObserver(logger)

	obs.OnCallComplete(CallEvent{Provider: "gemini", Model: "m", Latency: 1500 * time.Millisecond, Success: true})
	obs.OnCallComplete(CallEvent{Provider: "gemini", Model: "m", Success: false, ErrorCode: "TIMEOUT"})

	out := buf.String()
	assert.Contains(t, out, "model call")
	assert.Contains(t, out, "latency_ms=1500")
	assert.Contains(t, out, "model call failed")
	assert.Contains(t, out, "code=TIMEOUT")
}
