package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{PolicyPath: filepath.Join(t.TempDir(), "missing.yaml")}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create MCP server: %v", err)
	}
	return s
}

func newTestServerWithPolicy(t *testing.T, policyYAML string) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(policyYAML), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{PolicyPath: path})
	if err != nil {
		t.Fatalf("failed to create MCP server with policy: %v", err)
	}
	return s
}

func TestVerifySQLApproved(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, out, err := s.handleVerifySQL(ctx, &mcpsdk.CallToolRequest{}, VerifySQLInput{
		SQL:    "UPDATE users SET active=1 WHERE id=5;",
		Schema: "CREATE TABLE users (id INTEGER PRIMARY KEY, active INTEGER)",
		Data:   "INSERT INTO users (id, active) VALUES (5, 0)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatalf("expected success, got error result: %s", out.Message)
	}
	if !out.Approved || out.RowsAffected != 1 {
		t.Fatalf("unexpected verdict: %+v", out)
	}
	if out.VerdictID == "" {
		t.Fatal("expected a verdict ID")
	}
}

func TestVerifySQLBlocked(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, out, err := s.handleVerifySQL(ctx, &mcpsdk.CallToolRequest{}, VerifySQLInput{
		SQL: "DROP TABLE users;",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected IsError result for blocked SQL")
	}
	if out.Approved {
		t.Fatal("expected approved=false")
	}
	if out.Failure != "blocked_pattern" {
		t.Fatalf("expected blocked_pattern, got %q", out.Failure)
	}
}

func TestVerifyScript(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, out, err := s.handleVerifyScript(ctx, &mcpsdk.CallToolRequest{}, VerifyScriptInput{
		Script: "exec UPDATE users SET active=1 WHERE id=5\nassert-rows 1 SELECT * FROM users WHERE active=1",
		Schema: "CREATE TABLE users (id INTEGER PRIMARY KEY, active INTEGER)",
		Data:   "INSERT INTO users (id, active) VALUES (5, 0)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatalf("expected success, got error result: %s", out.Message)
	}
	if !out.Approved {
		t.Fatalf("unexpected verdict: %+v", out)
	}
}

func TestVerifyTextRejected(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, out, err := s.handleVerifyText(ctx, &mcpsdk.CallToolRequest{}, VerifyTextInput{
		Text: "thank you, please stop being an idiot about this.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected IsError result for forbidden phrase")
	}
	if out.Failure != "content_policy" {
		t.Fatalf("expected content_policy, got %q", out.Failure)
	}
	if len(out.Issues) == 0 {
		t.Fatal("expected issues on the verdict")
	}
}

func TestAgentPolicyApplied(t *testing.T) {
	s := newTestServerWithPolicy(t, `
agents:
  support:
    required_tone: friendly
`)
	ctx := context.Background()

	result, out, err := s.handleVerifyText(ctx, &mcpsdk.CallToolRequest{}, VerifyTextInput{
		Text:  "awesome, happy to help! let me know if you need anything.",
		Agent: "support",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatalf("expected approval under friendly tone, got: %s (%v)", out.Message, out.Issues)
	}
}

func TestPolicyShow(t *testing.T) {
	s := newTestServerWithPolicy(t, `
default:
  risk_tolerance: high
agents:
  dbfixer:
    max_rows_affected: 500
`)
	ctx := context.Background()

	_, out, err := s.handlePolicyShow(ctx, &mcpsdk.CallToolRequest{}, PolicyShowInput{Agent: "dbfixer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.MaxRowsAffected != 500 {
		t.Fatalf("expected agent override, got %+v", out)
	}
	if out.PolicyHash == "" {
		t.Fatal("expected a policy hash")
	}
}

func TestVerdictsRecorded(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "verdicts.jsonl")
	s, err := New(Config{
		PolicyPath:     filepath.Join(dir, "missing.yaml"),
		VerdictLogPath: logPath,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.handleVerifySQL(context.Background(), &mcpsdk.CallToolRequest{}, VerifySQLInput{
		SQL: "TRUNCATE TABLE users;",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected verdict log to exist: %v", err)
	}
}

func TestToolRegistration(t *testing.T) {
	s := newTestServer(t)
	if s.mcpServer == nil {
		t.Fatal("expected MCP server to be initialized")
	}
}
