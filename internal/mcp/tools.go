// ABOUTME: MCP tool implementations for nutrition plans.
// ABOUTME: Generate, list, fetch, clear, and chart the plan history.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nutriwise/internal/gateway"
	"github.com/harperreed/nutriwise/internal/history"
	"github.com/harperreed/nutriwise/internal/models"
	"github.com/harperreed/nutriwise/internal/report"
	"github.com/harperreed/nutriwise/internal/trend"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrGenerationDisabled is returned by generate_plan when no planner is configured.
var ErrGenerationDisabled = errors.New("plan generation is not configured")

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_plan",
		Description: "Generate a one-day South Indian neuro-nutrition plan for a profile and save it to history",
	}, s.handleGeneratePlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_history",
		Description: "List saved plans (at most 10), newest first",
	}, s.handleListHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_plan",
		Description: "Get a saved plan by ID or ID prefix; the latest plan when no ID is given",
	}, s.handleGetPlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_history",
		Description: "Delete every saved plan",
	}, s.handleClearHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_trends",
		Description: "Calories, total protein, and body weight for each saved plan, oldest first",
	}, s.handleGetTrends)
}

// Tool input/output types

type generatePlanInput struct {
	Age            int     `json:"age,omitempty" jsonschema:"Age in years (1-120), defaults to 25"`
	Gender         string  `json:"gender,omitempty" jsonschema:"male, female, or other; defaults to male"`
	Weight         float64 `json:"weight,omitempty" jsonschema:"Body weight in kg, defaults to 70"`
	Height         float64 `json:"height,omitempty" jsonschema:"Height in cm, defaults to 175"`
	ActivityLevel  string  `json:"activity_level,omitempty" jsonschema:"sedentary, light, moderate, very_active, or extra_active"`
	Goal           string  `json:"goal,omitempty" jsonschema:"healthy_living, weight_loss, muscle_gain, or energy_boost"`
	DietPreference string  `json:"diet_preference,omitempty" jsonschema:"any, vegetarian, vegan, keto, paleo, or gluten_free"`
}

func (in generatePlanInput) profile() models.Profile {
	p := models.DefaultProfile()
	if in.Age != 0 {
		p.Age = in.Age
	}
	if in.Gender != "" {
		p.Gender = in.Gender
	}
	if in.Weight != 0 {
		p.Weight = in.Weight
	}
	if in.Height != 0 {
		p.Height = in.Height
	}
	if in.ActivityLevel != "" {
		p.ActivityLevel = models.ActivityLevel(in.ActivityLevel)
	}
	if in.Goal != "" {
		p.Goal = models.Goal(in.Goal)
	}
	if in.DietPreference != "" {
		p.DietPreference = models.DietPreference(in.DietPreference)
	}
	return p.Normalized()
}

type entryOutput struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"created_at"`
	Profile   models.Profile `json:"profile"`
	Plan      models.Plan    `json:"plan"`
	Message   string         `json:"message,omitempty"`
}

func newEntryOutput(e models.HistoryEntry, message string) entryOutput {
	return entryOutput{
		ID:        e.ID,
		CreatedAt: e.Time().Format(time.RFC3339),
		Profile:   e.Profile,
		Plan:      e.Plan,
		Message:   message,
	}
}

type listHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 10)"`
}

type entrySummary struct {
	ID               string  `json:"id"`
	CreatedAt        string  `json:"created_at"`
	DailyCalories    float64 `json:"daily_calories"`
	TotalProtein     float64 `json:"total_protein"`
	BrainHealthScore float64 `json:"brain_health_score"`
	Weight           float64 `json:"weight"`
	Goal             string  `json:"goal"`
	Meals            int     `json:"meals"`
}

type listHistoryOutput struct {
	Count   int            `json:"count"`
	Entries []entrySummary `json:"entries"`
}

type getPlanInput struct {
	ID string `json:"id,omitempty" jsonschema:"Plan ID or prefix; omit for the latest plan"`
}

type clearHistoryInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true to delete every saved plan"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type trendsInput struct{}

type trendsOutput struct {
	Points []trend.Point `json:"points"`
	Series trend.Series  `json:"series"`
}

// Tool handlers

func (s *Server) handleGeneratePlan(ctx context.Context, req *mcp.CallToolRequest, input generatePlanInput) (*mcp.CallToolResult, entryOutput, error) {
	if s.planner == nil {
		return nil, entryOutput{}, fmt.Errorf("%w: set GEMINI_API_KEY or choose the ollama provider", ErrGenerationDisabled)
	}

	entry, err := s.planner.Generate(ctx, input.profile())
	if err != nil {
		if errors.Is(err, gateway.ErrGatewayFailure) {
			return nil, entryOutput{}, fmt.Errorf("%s (%v)", gateway.UserMessage, err)
		}
		return nil, entryOutput{}, err
	}

	return nil, newEntryOutput(entry, fmt.Sprintf("Generated plan %s: %s kcal, neuro score %s",
		entry.ShortID(), report.FormatNumber(entry.Plan.DailyCalories), report.FormatNumber(entry.Plan.BrainHealthScore))), nil
}

func (s *Server) handleListHistory(ctx context.Context, req *mcp.CallToolRequest, input listHistoryInput) (*mcp.CallToolResult, listHistoryOutput, error) {
	if input.Limit <= 0 {
		input.Limit = history.Capacity
	}

	entries := s.history.Current()
	out := listHistoryOutput{Entries: []entrySummary{}}
	for i := len(entries) - 1; i >= 0 && len(out.Entries) < input.Limit; i-- {
		e := entries[i]
		out.Entries = append(out.Entries, entrySummary{
			ID:               e.ID,
			CreatedAt:        e.Time().Format(time.RFC3339),
			DailyCalories:    e.Plan.DailyCalories,
			TotalProtein:     e.Plan.TotalProtein(),
			BrainHealthScore: e.Plan.BrainHealthScore,
			Weight:           e.Profile.Weight,
			Goal:             string(e.Profile.Goal),
			Meals:            len(e.Plan.Meals),
		})
	}
	out.Count = len(out.Entries)
	return nil, out, nil
}

func (s *Server) handleGetPlan(ctx context.Context, req *mcp.CallToolRequest, input getPlanInput) (*mcp.CallToolResult, entryOutput, error) {
	if input.ID == "" {
		latest, ok := s.history.Latest()
		if !ok {
			return nil, entryOutput{}, fmt.Errorf("no plans saved yet")
		}
		return nil, newEntryOutput(latest, ""), nil
	}

	entry, err := s.history.Find(input.ID)
	if err != nil {
		return nil, entryOutput{}, err
	}
	return nil, newEntryOutput(entry, ""), nil
}

func (s *Server) handleClearHistory(ctx context.Context, req *mcp.CallToolRequest, input clearHistoryInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !input.Confirm {
		return nil, simpleOutput{}, fmt.Errorf("refusing to clear history without confirm=true")
	}

	n := s.history.Len()
	if err := s.history.Clear(); err != nil {
		if !history.IsPersistenceError(err) {
			return nil, simpleOutput{}, fmt.Errorf("failed to clear history: %w", err)
		}
		// Memory is already empty; the stale stored copy is replaced on the next write.
		s.logger.Warn("failed to persist cleared history", "err", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Cleared %d saved plans", n)}, nil
}

func (s *Server) handleGetTrends(ctx context.Context, req *mcp.CallToolRequest, input trendsInput) (*mcp.CallToolResult, trendsOutput, error) {
	return nil, s.trends(), nil
}

func (s *Server) trends() trendsOutput {
	points := trend.Projector{Location: s.location}.Project(s.history.Current())
	return trendsOutput{Points: points, Series: trend.Columns(points)}
}
