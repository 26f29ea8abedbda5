package cmd

import (
	"github.com/jblievremont/sonarqube/internal/mcp"
	"github.com/jblievremont/sonarqube/internal/store"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the compute engine MCP server",
	Long:    `Launch an MCP server that allows AI agents to analyze reports and browse persisted sources via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, store.Manager.GetStore(), metrics)
	},
}
