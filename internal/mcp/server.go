// Package mcp exposes the verification gate as an MCP tool server, so a
// generation agent can submit artifacts over stdio and receive verdicts
// without linking the gate into its own process.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/greenlightd/greenlight/internal/audit"
	"github.com/greenlightd/greenlight/internal/content"
	"github.com/greenlightd/greenlight/internal/pattern"
	"github.com/greenlightd/greenlight/internal/pipeline"
	"github.com/greenlightd/greenlight/internal/policy"
	"github.com/greenlightd/greenlight/internal/sandbox"
)

// Config holds MCP server configuration.
type Config struct {
	PolicyPath     string
	AgentID        string
	VerdictLogPath string
}

// Server wraps the MCP SDK server around the verification pipeline.
type Server struct {
	mcpServer  *mcpsdk.Server
	pipeline   *pipeline.Pipeline
	policies   *policy.Store
	verdictLog *audit.Log
	agentID    string
}

// New creates an MCP server with a loaded policy store and registered tools.
func New(cfg Config) (*Server, error) {
	store, err := policy.NewStore(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	var verdictLog *audit.Log
	if cfg.VerdictLogPath != "" {
		verdictLog, err = audit.Open(cfg.VerdictLogPath)
		if err != nil {
			return nil, fmt.Errorf("open verdict log: %w", err)
		}
	}

	sb := sandbox.New(pattern.NewValidator(), store.Config().SandboxTimeout())

	s := &Server{
		pipeline:   pipeline.New(sb, content.NewScorer(), store, verdictLog),
		policies:   store,
		verdictLog: verdictLog,
		agentID:    cfg.AgentID,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "greenlight",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled. The policy file is watched for edits while running.
func (s *Server) Run(ctx context.Context) error {
	go s.policies.Watch(ctx)
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the verdict log if configured.
func (s *Server) Close() error {
	if s.verdictLog != nil {
		return s.verdictLog.Close()
	}
	return nil
}

// registerTools adds all greenlight tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "greenlight_verify_sql",
		Description: "Verify a SQL artifact by dry-running it against disposable state. Returns a verdict; rejected artifacts must not be executed.",
	}, s.handleVerifySQL)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "greenlight_verify_script",
		Description: "Verify a script artifact (exec/query/assert-rows operations) in the sandbox. Returns a verdict; rejected artifacts must not be executed.",
	}, s.handleVerifyScript)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "greenlight_verify_text",
		Description: "Verify a natural-language artifact against tone and safety policy. Returns a verdict; rejected artifacts must not be sent.",
	}, s.handleVerifyText)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "greenlight_policy_show",
		Description: "Show the effective risk policy for an agent.",
	}, s.handlePolicyShow)
}
