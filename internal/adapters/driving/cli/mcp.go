package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/mcp"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/panelhost"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve [file]...",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the focused panel's status and the viewer intents
(navigate, view, find, highlight, toggle_outline, save) as tools, and the
remembered workspace state as resources. Files given as arguments are
opened in browser panels first, exactly like 'pdfpanel serve'.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  pdfpanel mcp serve paper.pdf

  # HTTP mode (for MCP Inspector, remote access)
  pdfpanel mcp serve paper.pdf --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "pdfpanel": {
        "command": "/path/to/pdfpanel",
        "args": ["mcp", "serve", "/path/to/paper.pdf", "--open"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Int("panel-port", panelhost.DefaultPort, "First port to try for the panel server")
	mcpServeCmd.Flags().Bool("open", false, "Open each panel in the default browser")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if documentHost == nil {
		return errors.New("document provider not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) > 0 {
		if panelHost == nil {
			return errors.New("panel host not configured")
		}
		start, _ := cmd.Flags().GetInt("panel-port")
		openBrowser, _ := cmd.Flags().GetBool("open")
		// stdout carries JSON-RPC in stdio mode.
		stopHost, err := startPanels(ctx, cmd.ErrOrStderr(), start, openBrowser, args)
		if err != nil {
			return err
		}
		defer stopHost()
	}

	ports := &mcp.Ports{
		Active: documentHost.Presenters().Lookup(),
		Saver:  documentHost,
	}
	if workspaceState != nil {
		ports.Workspace = workspaceState
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
