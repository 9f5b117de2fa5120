package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/greenlightd/greenlight/internal/model"
)

// RiskPolicy is the per-agent configuration the gate evaluates against.
// The gate never mutates it.
type RiskPolicy struct {
	MaxRowsAffected  int             `yaml:"max_rows_affected"`
	RiskTolerance    model.RiskLevel `yaml:"risk_tolerance"`
	ForbiddenPhrases []string        `yaml:"forbidden_phrases"`
	RequiredTone     model.Tone      `yaml:"required_tone"`
	MaxContentLength int             `yaml:"max_content_length"`
	MinToneScore     float64         `yaml:"min_tone_score"`
	MinProfScore     float64         `yaml:"min_professionalism_score"`
}

// Config holds the default policy plus named per-agent overrides.
type Config struct {
	Default               RiskPolicy            `yaml:"default"`
	Agents                map[string]RiskPolicy `yaml:"agents"`
	SandboxTimeoutSeconds int                   `yaml:"sandbox_timeout_seconds"`
}

// SandboxTimeout returns the configured dry-run deadline.
func (c *Config) SandboxTimeout() time.Duration {
	return time.Duration(c.SandboxTimeoutSeconds) * time.Second
}

// DefaultPolicy returns the built-in risk policy.
func DefaultPolicy() RiskPolicy {
	return RiskPolicy{
		MaxRowsAffected:  10000,
		RiskTolerance:    model.RiskMedium,
		ForbiddenPhrases: nil,
		RequiredTone:     model.ToneProfessional,
		MaxContentLength: 1000,
		MinToneScore:     0.1,
		MinProfScore:     0.1,
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Default:               DefaultPolicy(),
		Agents:                map[string]RiskPolicy{},
		SandboxTimeoutSeconds: 10,
	}
}

// PolicyFor resolves the effective policy for an agent. Unknown or empty
// agent IDs fall back to the default policy; zero-valued fields in an agent
// override inherit from the default so partial overrides stay sane.
func (c *Config) PolicyFor(agentID string) RiskPolicy {
	base := c.Default
	fillPolicy(&base, DefaultPolicy())

	if agentID == "" {
		return base
	}
	override, ok := c.Agents[agentID]
	if !ok {
		return base
	}
	fillPolicy(&override, base)
	return override
}

// fillPolicy inherits unset fields from a base policy. RiskTolerance is
// deliberately not inherited: an agent override that omits it gets the
// zero value (low), which fails closed rather than open.
func fillPolicy(p *RiskPolicy, from RiskPolicy) {
	if p.MaxRowsAffected == 0 {
		p.MaxRowsAffected = from.MaxRowsAffected
	}
	if p.RequiredTone == "" {
		p.RequiredTone = from.RequiredTone
	}
	if p.MaxContentLength == 0 {
		p.MaxContentLength = from.MaxContentLength
	}
	if p.MinToneScore == 0 {
		p.MinToneScore = from.MinToneScore
	}
	if p.MinProfScore == 0 {
		p.MinProfScore = from.MinProfScore
	}
	if len(p.ForbiddenPhrases) == 0 {
		p.ForbiddenPhrases = from.ForbiddenPhrases
	}
}

// LoadConfig loads configuration from a YAML file.
// Empty path falls back to ~/.greenlight/policy.yaml.
// Missing file returns defaults. Invalid YAML returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg, _, err := LoadConfigWithHash(path)
	return cfg, err
}

// LoadConfigWithHash loads configuration and returns the SHA-256 hash of
// the raw YAML bytes on disk, for stamping verdict records. When no file
// exists (defaults used), the hash is the SHA-256 of empty input.
func LoadConfigWithHash(path string) (*Config, string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			h := sha256.Sum256(nil)
			return DefaultConfig(), "sha256:" + hex.EncodeToString(h[:]), nil
		}
		path = filepath.Join(home, ".greenlight", "policy.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256(nil)
			return DefaultConfig(), "sha256:" + hex.EncodeToString(h[:]), nil
		}
		return nil, "", fmt.Errorf("failed to read policy config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse policy config: %w", err)
	}
	if cfg.SandboxTimeoutSeconds <= 0 {
		cfg.SandboxTimeoutSeconds = DefaultConfig().SandboxTimeoutSeconds
	}

	h := sha256.Sum256(data)
	return cfg, "sha256:" + hex.EncodeToString(h[:]), nil
}

// DefaultConfigYAML renders the built-in configuration as YAML, used by
// `greenlight policy init` to seed a starting policy file.
func DefaultConfigYAML() string {
	out, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return ""
	}
	return string(out)
}
