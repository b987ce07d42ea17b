package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can preview
and apply renames and inspect run history.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead.

Tools:
  preview_rename  plan names for files or directories without touching them
  rename_pdfs     rename files or directories after their titles, or apply
                  a preview unchanged with preview_id
  list_runs       list recorded runs
  get_run         show the outcomes of one run

Examples:
  # Stdio mode (default)
  pdfren mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  pdfren mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Rename:   renameService,
		History:  historyService,
		Settings: settingsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
