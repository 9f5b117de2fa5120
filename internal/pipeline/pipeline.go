// Package pipeline orchestrates the verification gate: static
// classification, sandbox dry run, content scoring, and risk gating,
// combined into a single Verdict per artifact. The pipeline never calls
// billing or execution collaborators — they consume the Verdict and must
// check Approved before acting.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/greenlightd/greenlight/internal/audit"
	"github.com/greenlightd/greenlight/internal/content"
	"github.com/greenlightd/greenlight/internal/gate"
	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/policy"
	"github.com/greenlightd/greenlight/internal/sandbox"
)

// Pipeline verifies artifacts against per-agent policies.
// All dependencies are constructor-injected; there is no process-wide
// instance. Stateless across calls and safe for concurrent use.
type Pipeline struct {
	sandbox    *sandbox.Sandbox
	scorer     *content.Scorer
	policies   *policy.Store
	verdictLog *audit.Log // optional
}

// New creates a Pipeline. verdictLog may be nil to skip recording.
func New(sb *sandbox.Sandbox, scorer *content.Scorer, policies *policy.Store, verdictLog *audit.Log) *Pipeline {
	return &Pipeline{
		sandbox:    sb,
		scorer:     scorer,
		policies:   policies,
		verdictLog: verdictLog,
	}
}

// Verify runs an artifact through the gate and returns its Verdict.
// Code artifacts take the static → sandbox → gate path; text artifacts the
// score → gate path. An error is returned only for unusable input (unknown
// kind); every policy outcome, including rejection, is a Verdict.
func (p *Pipeline) Verify(ctx context.Context, agentID string, artifact model.Artifact, seed sandbox.Seed) (model.Verdict, error) {
	if !artifact.Kind.Valid() {
		return model.Verdict{}, fmt.Errorf("unknown artifact kind %q", artifact.Kind)
	}

	pol := p.policies.PolicyFor(agentID)

	var verdict model.Verdict
	if artifact.Kind.IsCode() {
		verdict = p.verifyCode(ctx, artifact, seed, pol)
	} else {
		verdict = p.verifyText(artifact, pol)
	}
	verdict.ID = uuid.NewString()
	verdict.AgentID = agentID
	verdict.Kind = artifact.Kind

	if p.verdictLog != nil {
		entry := audit.NewEntry(verdict, artifact, p.policies.Hash())
		if err := p.verdictLog.Record(entry); err != nil {
			return model.Verdict{}, fmt.Errorf("record verdict: %w", err)
		}
	}

	return verdict, nil
}

// verifyCode is the code path: the sandbox re-runs static classification
// first, so a blocked artifact never touches execution resources.
func (p *Pipeline) verifyCode(ctx context.Context, artifact model.Artifact, seed sandbox.Seed, pol policy.RiskPolicy) model.Verdict {
	report := p.sandbox.DryRun(ctx, artifact.Body, artifact.Kind, seed, pol)
	approved := gate.GateCode(report, pol.RiskTolerance)

	message := report.Message
	if !approved && report.Passed {
		// Dry run succeeded but the risk exceeds what the policy tolerates.
		message = fmt.Sprintf("risk %s exceeds tolerance %s", report.RiskLevel, pol.RiskTolerance)
	}

	return model.Verdict{
		Approved:     approved,
		RiskLevel:    report.RiskLevel,
		RowsAffected: report.RowsAffected,
		Message:      message,
		Failure:      report.Failure,
	}
}

// verifyText is the text path: lexical scoring followed by threshold gating.
func (p *Pipeline) verifyText(artifact model.Artifact, pol policy.RiskPolicy) model.Verdict {
	report := p.scorer.Score(artifact.Body, pol)
	approved := gate.GateContent(report, pol.MinToneScore, pol.MinProfScore)

	verdict := model.Verdict{
		Approved:  approved,
		RiskLevel: model.RiskLow,
		Issues:    report.Issues,
		ToneScore: report.ToneScore,
		ProfScore: report.ProfessionalismScore,
		Message:   "content passed all checks",
	}
	if !approved {
		verdict.Failure = model.FailContentPolicy
		verdict.RiskLevel = model.RiskHigh
		verdict.Message = fmt.Sprintf("found %d content issues", len(report.Issues))
		if report.Passed {
			verdict.Message = fmt.Sprintf("scores below policy floor (tone %.2f, professionalism %.2f)",
				report.ToneScore, report.ProfessionalismScore)
		}
	}
	return verdict
}
