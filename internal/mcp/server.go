// ABOUTME: MCP server setup for the nutriwise plan history.
// ABOUTME: Wraps the MCP server with history and planner access.
package mcp

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nutriwise/internal/history"
	"github.com/harperreed/nutriwise/internal/planner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with history access.
type Server struct {
	mcpServer *mcp.Server
	history   *history.Store
	planner   *planner.Planner
	location  *time.Location
	logger    *log.Logger
}

// NewServer creates a new MCP server. A nil planner disables generate_plan,
// which then reports why instead of calling a model. A nil logger discards output.
func NewServer(hist *history.Store, p *planner.Planner, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nutriwise",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		history:   hist,
		planner:   p,
		location:  time.Local,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
