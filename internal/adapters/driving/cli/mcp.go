package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confclone/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can load page
trees, clone pages and read the run history.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools:
  load_page_tree  - load a space or subtree (replaces the loaded tree)
  clone_pages     - clone pages of the loaded tree under a target parent
  list_runs       - recent clone runs
  preview_page    - a page rendered as markdown

Examples:
  # Stdio mode (default)
  confclone mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  confclone mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "confclone": {
        "command": "/path/to/confclone",
        "args": ["mcp", "serve"]
      }
    }
  }`,
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
		Tree:  treeService,
		Clone: cloneOrchestrator,
		Runs:  runService,
		Pages: pageService,
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
