// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server exposing plan generation and history.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/nutriwise/internal/gateway"
	"github.com/harperreed/nutriwise/internal/mcp"
	"github.com/harperreed/nutriwise/internal/planner"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "nutriwise": {
        "command": "nutriwise",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  generate_plan   Generate and save a plan for a profile
  list_history    List saved plans, newest first
  get_plan        Get one saved plan by ID prefix
  clear_history   Delete all saved plans (requires confirm)
  get_trends      Calories, protein, and weight per saved plan

AVAILABLE RESOURCES:

  nutriwise://history   All saved plans as JSON
  nutriwise://latest    The newest plan as markdown
  nutriwise://trends    Trend points as JSON

If no model provider is configured, the history tools still work and
generate_plan reports the missing setting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var p *planner.Planner
		gw, err := gateway.New(cfg.GatewayConfig(), gateway.NewLogObserver(logger))
		if err != nil {
			logger.Warn("plan generation disabled", "err", err)
		} else {
			p = planner.New(gw, hist, logger)
		}

		server, err := mcp.NewServer(hist, p, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
