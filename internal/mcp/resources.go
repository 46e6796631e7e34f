// ABOUTME: MCP resource implementations for nutrition plans.
// ABOUTME: Provides nutriwise://history, nutriwise://latest, and nutriwise://trends.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/nutriwise/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	historyURI = "nutriwise://history"
	latestURI  = "nutriwise://latest"
	trendsURI  = "nutriwise://trends"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "Plan History",
		Description: "Up to 10 saved plans with their profiles, oldest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         latestURI,
		Name:        "Latest Plan",
		Description: "The most recent plan as a markdown report",
		MIMEType:    "text/markdown",
	}, s.handleLatestResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         trendsURI,
		Name:        "Plan Trends",
		Description: "Calories, protein, and weight per saved plan",
		MIMEType:    "application/json",
	}, s.handleTrendsResource)
}

// Resource handlers

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(historyURI, s.history.Current())
}

func (s *Server) handleLatestResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	text := "No plans saved yet.\n"
	if latest, ok := s.history.Latest(); ok {
		text = report.PlanMarkdown(latest)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      latestURI,
			MIMEType: "text/markdown",
			Text:     text,
		}},
	}, nil
}

func (s *Server) handleTrendsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(trendsURI, s.trends())
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
