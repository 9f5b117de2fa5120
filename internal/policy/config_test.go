package policy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/greenlightd/greenlight/internal/model"
)

func TestDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Default.MaxRowsAffected != 10000 {
		t.Errorf("expected default max rows 10000, got %d", cfg.Default.MaxRowsAffected)
	}
	if cfg.Default.RiskTolerance != model.RiskMedium {
		t.Errorf("expected default tolerance medium, got %s", cfg.Default.RiskTolerance)
	}
	if cfg.SandboxTimeout() != 10*time.Second {
		t.Errorf("expected default sandbox timeout 10s, got %s", cfg.SandboxTimeout())
	}
}

func TestInvalidYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("{{{not yaml"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestPartialOverlayKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	yaml := `
default:
  max_rows_affected: 500
  required_tone: friendly
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.PolicyFor("")
	if p.MaxRowsAffected != 500 {
		t.Errorf("expected overridden max rows 500, got %d", p.MaxRowsAffected)
	}
	if p.RequiredTone != model.ToneFriendly {
		t.Errorf("expected friendly tone, got %s", p.RequiredTone)
	}
	if p.MaxContentLength != 1000 {
		t.Errorf("expected inherited max content length 1000, got %d", p.MaxContentLength)
	}
}

func TestPolicyForAgentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	yaml := `
default:
  max_rows_affected: 10000
  risk_tolerance: medium
agents:
  support:
    required_tone: friendly
    max_content_length: 500
    forbidden_phrases: ["not my problem", "figure it out yourself"]
  dbfixer:
    risk_tolerance: high
    max_rows_affected: 2000
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	support := cfg.PolicyFor("support")
	if support.RequiredTone != model.ToneFriendly {
		t.Errorf("expected friendly tone for support agent, got %s", support.RequiredTone)
	}
	if support.MaxContentLength != 500 {
		t.Errorf("expected max length 500, got %d", support.MaxContentLength)
	}
	if len(support.ForbiddenPhrases) != 2 {
		t.Errorf("expected 2 forbidden phrases, got %d", len(support.ForbiddenPhrases))
	}
	// Unset fields inherit from default.
	if support.MaxRowsAffected != 10000 {
		t.Errorf("expected inherited max rows 10000, got %d", support.MaxRowsAffected)
	}

	dbfixer := cfg.PolicyFor("dbfixer")
	if dbfixer.RiskTolerance != model.RiskHigh {
		t.Errorf("expected high tolerance for dbfixer, got %s", dbfixer.RiskTolerance)
	}
	if dbfixer.MaxRowsAffected != 2000 {
		t.Errorf("expected max rows 2000, got %d", dbfixer.MaxRowsAffected)
	}

	unknown := cfg.PolicyFor("nonexistent")
	if unknown.MaxRowsAffected != 10000 {
		t.Errorf("unknown agent should fall back to default, got %d", unknown.MaxRowsAffected)
	}
}

func TestUnknownToleranceFailsClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	yaml := `
default:
  risk_tolerance: yolo
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	// A typo in tolerance must not open the gate wider.
	if cfg.Default.RiskTolerance != model.RiskBlocked {
		t.Errorf("expected unknown tolerance to parse as blocked, got %s", cfg.Default.RiskTolerance)
	}
}

func TestLoadConfigWithHashStamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("default:\n  max_rows_affected: 7\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, hash1, err := LoadConfigWithHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(hash1) != len("sha256:")+64 {
		t.Errorf("unexpected hash format: %s", hash1)
	}

	if err := os.WriteFile(path, []byte("default:\n  max_rows_affected: 8\n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, hash2, err := LoadConfigWithHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if hash1 == hash2 {
		t.Error("hash should change when file content changes")
	}
}

func TestStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("default:\n  max_rows_affected: 100\n"), 0600); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.PolicyFor("").MaxRowsAffected; got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}

	if err := os.WriteFile(path, []byte("default:\n  max_rows_affected: 200\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err != nil {
		t.Fatal(err)
	}
	if got := store.PolicyFor("").MaxRowsAffected; got != 200 {
		t.Errorf("expected 200 after reload, got %d", got)
	}
}

func TestStoreReloadKeepsOldConfigOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("default:\n  max_rows_affected: 100\n"), 0600); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("{{{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err == nil {
		t.Fatal("expected reload error for broken YAML")
	}
	if got := store.PolicyFor("").MaxRowsAffected; got != 100 {
		t.Errorf("broken reload must keep previous config, got %d", got)
	}
}
