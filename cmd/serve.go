package cmd

import (
	"github.com/elcfinder/elcfinder/core"
	"github.com/elcfinder/elcfinder/internal/mcp"
	"github.com/elcfinder/elcfinder/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the read-only HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Serve rankings over a read-only HTTP JSON API",
	Long: `Load the school list once and serve rankings over HTTP.

Endpoints:
  GET /api/schools    - the normalized school list
  GET /api/rankings   - ranked schools (?cost=8&nqs=10&limit=5&tie_break=name)
  GET /api/chart      - chart points
  GET /api/map        - map markers
  GET /api/insight    - one-line insight about the top school
  GET /api/criteria   - criteria with active weights
  GET /healthz        - liveness probe
  GET /metrics        - Prometheus metrics

With --watch, edits to a local source file replace the school list
without a restart. A bad edit keeps the previous list.

Examples:
  elcfinder serve --addr :9090
  elcfinder serve schools.json --watch --cors-origins https://example.org`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		srv, err := server.New(cfg, core.NewSource(cfg, storeManager))
		if err != nil {
			return err
		}
		return srv.Run(rootCtx)
	},
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [source]",
	Short: "Start the ELC Finder MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents rank and compare schools via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
