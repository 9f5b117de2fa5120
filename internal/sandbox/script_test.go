package sandbox

import (
	"context"
	"strings"
	"testing"

	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/pattern"
	"github.com/greenlightd/greenlight/internal/policy"
)

func TestScriptAllowListedOps(t *testing.T) {
	s := newTestSandbox()
	seed := Seed{
		Schema: usersSeed,
		Data:   "INSERT INTO users (id, active) VALUES (1, 0); INSERT INTO users (id, active) VALUES (2, 0)",
	}
	script := strings.Join([]string{
		"# activate both accounts, then confirm",
		"exec UPDATE users SET active=1 WHERE id IN (1, 2)",
		"query SELECT id FROM users WHERE active=1",
		"assert-rows 2 SELECT id FROM users WHERE active=1",
	}, "\n")

	report := s.DryRun(context.Background(), script, model.KindScript, seed, policy.DefaultPolicy())

	if !report.Passed {
		t.Fatalf("expected pass, got: %s", report.Message)
	}
	if report.RowsAffected != 2 {
		t.Errorf("expected 2 rows affected, got %d", report.RowsAffected)
	}
}

func TestScriptAssertionFailureFailsHigh(t *testing.T) {
	s := newTestSandbox()
	seed := Seed{
		Schema: usersSeed,
		Data:   "INSERT INTO users (id, active) VALUES (1, 0)",
	}
	script := "exec UPDATE users SET active=1 WHERE id=1\nassert-rows 5 SELECT id FROM users WHERE active=1"

	report := s.DryRun(context.Background(), script, model.KindScript, seed, policy.DefaultPolicy())

	if report.Passed {
		t.Fatal("expected assertion failure to reject")
	}
	if report.Failure != model.FailSandboxExecution {
		t.Errorf("expected sandbox_execution failure, got %s", report.Failure)
	}
}

func TestScriptUnknownOperationFailsClosed(t *testing.T) {
	s := newTestSandbox()
	script := "shell rm -rf /\nexec SELECT 1"

	report := s.DryRun(context.Background(), script, model.KindScript, Seed{Schema: usersSeed}, policy.DefaultPolicy())

	if report.Passed {
		t.Fatal("expected unknown operation to fail closed")
	}
	if report.RiskLevel != model.RiskBlocked {
		// "rm -rf" trips the script blocklist before parsing even starts.
		t.Errorf("expected risk blocked, got %s", report.RiskLevel)
	}
}

func TestScriptUnlistedVerbRejected(t *testing.T) {
	s := newTestSandbox()
	script := "fetch https://example.com/data"

	report := s.DryRun(context.Background(), script, model.KindScript, Seed{}, policy.DefaultPolicy())

	if report.Passed {
		t.Fatal("expected unlisted verb to fail closed")
	}
	if report.Failure != model.FailSandboxExecution {
		t.Errorf("expected sandbox_execution failure, got %s", report.Failure)
	}
	if !strings.Contains(report.Message, "not allow-listed") {
		t.Errorf("expected allow-list rejection in message, got: %s", report.Message)
	}
}

func TestScriptEmbeddedSQLIsRescreened(t *testing.T) {
	s := newTestSandbox()
	script := "exec DROP TABLE users"

	report := s.DryRun(context.Background(), script, model.KindScript, Seed{Schema: usersSeed}, policy.DefaultPolicy())

	if report.Passed {
		t.Fatal("expected embedded DROP TABLE to be blocked")
	}
	if report.RiskLevel != model.RiskBlocked {
		t.Errorf("expected risk blocked, got %s", report.RiskLevel)
	}
	if report.Failure != model.FailBlockedPattern {
		t.Errorf("expected blocked_pattern failure, got %s", report.Failure)
	}
}

func TestScriptEmptyFailsClosed(t *testing.T) {
	s := newTestSandbox()

	report := s.DryRun(context.Background(), "# nothing here\n\n", model.KindScript, Seed{}, policy.DefaultPolicy())

	if report.Passed {
		t.Fatal("expected empty script to fail closed")
	}
}

func TestScreenScriptCatchesEmbeddedSQL(t *testing.T) {
	v := pattern.NewValidator()

	safe, msg, risk := ScreenScript(v, "exec DELETE FROM t")
	if safe {
		t.Fatal("expected embedded unscoped DELETE to be blocked")
	}
	if risk != model.RiskBlocked {
		t.Errorf("expected risk blocked, got %s", risk)
	}
	if !strings.Contains(msg, "script operation blocked") {
		t.Errorf("expected per-operation block message, got: %s", msg)
	}
}

func TestScreenScriptPassesCleanScript(t *testing.T) {
	v := pattern.NewValidator()

	script := "exec UPDATE users SET active=1 WHERE id=1\nassert-rows 1 SELECT id FROM users WHERE active=1"
	safe, msg, risk := ScreenScript(v, script)
	if !safe {
		t.Fatalf("expected clean script to pass, got: %s", msg)
	}
	if risk != model.RiskLow {
		t.Errorf("expected risk low, got %s", risk)
	}
}

func TestScreenScriptFailsClosedOnGrammar(t *testing.T) {
	v := pattern.NewValidator()

	if safe, _, _ := ScreenScript(v, "fetch https://example.com"); safe {
		t.Error("expected unlisted verb to fail closed")
	}
	if safe, _, _ := ScreenScript(v, "# nothing\n"); safe {
		t.Error("expected empty script to fail closed")
	}
}

func TestParseScript(t *testing.T) {
	ops, err := parseScript("exec SELECT 1\nassert-rows 3 SELECT id FROM t\nquery SELECT 2")
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 3 {
		t.Fatalf("expected 3 ops, got %d", len(ops))
	}
	if ops[1].verb != "assert-rows" || ops[1].want != 3 {
		t.Errorf("unexpected assert-rows parse: %+v", ops[1])
	}

	if _, err := parseScript("assert-rows x SELECT 1"); err == nil {
		t.Error("expected error for non-numeric count")
	}
	if _, err := parseScript("exec"); err == nil {
		t.Error("expected error for exec without statement")
	}
}
