package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	glmcp "github.com/greenlightd/greenlight/internal/mcp"
)

var (
	mcpPolicy     string
	mcpAgent      string
	mcpVerdictLog string
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpPolicy, "policy", "", "Path to policy YAML")
	mcpCmd.Flags().StringVar(&mcpAgent, "agent", "", "Default agent ID for tool calls that omit one")
	mcpCmd.Flags().StringVar(&mcpVerdictLog, "verdict-log", "", "Append verdicts to a hash-chained JSONL log")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long: "Runs greenlight as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes verification tools: verify_sql, verify_script, verify_text,\n" +
		"policy_show. The policy file is hot-reloaded while running.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := glmcp.Config{
		PolicyPath:     mcpPolicy,
		AgentID:        mcpAgent,
		VerdictLogPath: mcpVerdictLog,
	}

	srv, err := glmcp.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "greenlight MCP server running on stdio")
	if mcpAgent != "" {
		fmt.Fprintf(os.Stderr, "Agent: %s\n", mcpAgent)
	}
	fmt.Fprintln(os.Stderr)

	return srv.Run(ctx)
}
