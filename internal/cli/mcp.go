package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/commitkit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol (MCP) server commands",
	Long: `Run the MCP server for AI agent integration.

The Model Context Protocol lets AI agents validate and construct commit
messages through commitkit.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server on stdio. Requests and responses are newline
delimited JSON-RPC 2.0 messages. Logs go to stderr or the configured log file.

Tools:
  - validate_commit:    Validate a message and list its violations
  - construct_commit:   Build a message from its parts
  - parse_commit:       Return the structure of a message
  - list_commit_types:  List the commit types
  - release_impact:     Compute the version bump for messages

Resources:
  - docs://conventional-types: Commit types as markdown`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	server, err := mcp.NewServer(versionInfo.Version,
		mcp.WithLogger(slog.New(logger)),
		mcp.WithConfig(cfg),
	)
	if err != nil {
		return err
	}

	logger.Debug("mcp server ready", "session", server.Session())
	return server.Serve(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout())
}
