package greenlight

import (
	"context"
)

// ApplyFunc is the function signature that Guard protects: it receives an
// artifact that has already been approved and applies it for real.
type ApplyFunc func(ctx context.Context, artifact Artifact) (any, error)

// Guard returns a function that verifies the artifact before calling fn.
// If the verdict rejects it, a *RejectionError is returned and fn is never
// called.
func (c *Client) Guard(fn ApplyFunc, opts ...GuardOption) func(ctx context.Context, artifact Artifact, seed Seed) (any, error) {
	gcfg := guardConfig{agentID: c.cfg.agentID}
	for _, o := range opts {
		o(&gcfg)
	}

	return func(ctx context.Context, artifact Artifact, seed Seed) (any, error) {
		verdict, err := c.verifyAs(ctx, gcfg.agentID, artifact, seed)
		if err != nil {
			return nil, err
		}
		if !verdict.Approved {
			return nil, &RejectionError{Artifact: artifact, Verdict: verdict}
		}
		return fn(ctx, artifact)
	}
}
