package greenlight

import (
	"context"
	"fmt"

	"github.com/greenlightd/greenlight/internal/audit"
	"github.com/greenlightd/greenlight/internal/content"
	"github.com/greenlightd/greenlight/internal/pattern"
	"github.com/greenlightd/greenlight/internal/pipeline"
	"github.com/greenlightd/greenlight/internal/policy"
	"github.com/greenlightd/greenlight/internal/sandbox"
)

// Client holds the verification pipeline for in-process gating.
// Safe for concurrent use.
type Client struct {
	cfg        clientConfig
	pipeline   *pipeline.Pipeline
	verdictLog *audit.Log
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}

	store, err := policy.NewStore(cfg.policyPath)
	if err != nil {
		return nil, fmt.Errorf("greenlight: failed to load policy: %w", err)
	}

	var verdictLog *audit.Log
	if cfg.verdictLogPath != "" {
		verdictLog, err = audit.Open(cfg.verdictLogPath)
		if err != nil {
			return nil, fmt.Errorf("greenlight: failed to open verdict log: %w", err)
		}
	}

	sb := sandbox.New(pattern.NewValidator(), store.Config().SandboxTimeout())

	return &Client{
		cfg:        cfg,
		pipeline:   pipeline.New(sb, content.NewScorer(), store, verdictLog),
		verdictLog: verdictLog,
	}, nil
}

// Verify runs one artifact through the gate and returns its Verdict.
// Rejection is not an error; check Verdict.Approved.
func (c *Client) Verify(ctx context.Context, artifact Artifact, seed Seed) (Verdict, error) {
	return c.verifyAs(ctx, c.cfg.agentID, artifact, seed)
}

func (c *Client) verifyAs(ctx context.Context, agentID string, artifact Artifact, seed Seed) (Verdict, error) {
	v, err := c.pipeline.Verify(ctx, agentID, toInternalArtifact(artifact), toInternalSeed(seed))
	if err != nil {
		return Verdict{}, err
	}
	return toVerdict(v), nil
}

// VerifySQL verifies a SQL artifact against seeded disposable state.
func (c *Client) VerifySQL(ctx context.Context, sql string, seed Seed) (Verdict, error) {
	return c.Verify(ctx, Artifact{Kind: KindSQL, Body: sql}, seed)
}

// VerifyScript verifies a script artifact against seeded disposable state.
func (c *Client) VerifyScript(ctx context.Context, script string, seed Seed) (Verdict, error) {
	return c.Verify(ctx, Artifact{Kind: KindScript, Body: script}, seed)
}

// VerifyText verifies a natural-language artifact.
func (c *Client) VerifyText(ctx context.Context, text string) (Verdict, error) {
	return c.Verify(ctx, Artifact{Kind: KindText, Body: text}, Seed{})
}

// Close closes the verdict log if configured.
func (c *Client) Close() error {
	if c.verdictLog != nil {
		return c.verdictLog.Close()
	}
	return nil
}
