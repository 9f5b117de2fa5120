// Package replay re-gates recorded verdicts under a different policy,
// answering "what would this policy have decided" before rolling it out.
// Replay is static: artifacts are re-classified and re-scored, and recorded
// row counts are checked against the new caps, but nothing is re-executed.
package replay

import (
	"fmt"

	"github.com/greenlightd/greenlight/internal/audit"
	"github.com/greenlightd/greenlight/internal/content"
	"github.com/greenlightd/greenlight/internal/gate"
	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/pattern"
	"github.com/greenlightd/greenlight/internal/policy"
	"github.com/greenlightd/greenlight/internal/sandbox"
)

// Replay reads a verdict log and evaluates every entry against the policy
// at policyPath. agentOverride, when non-empty, replays all entries under
// that agent's policy instead of each entry's recorded agent.
func Replay(logPath, policyPath, agentOverride string) (*Result, error) {
	cfg, err := policy.LoadConfig(policyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	entries, err := audit.Read(logPath)
	if err != nil {
		return nil, fmt.Errorf("read verdict log: %w", err)
	}

	validator := pattern.NewValidator()
	scorer := content.NewScorer()

	result := &Result{PolicyPath: policyPath}

	for _, entry := range entries {
		result.TotalVerdicts++

		agentID := agentOverride
		if agentID == "" {
			agentID = entry.AgentID
		}
		pol := cfg.PolicyFor(agentID)

		newApproved, newRisk, reason := regate(entry, pol, validator, scorer)

		if newApproved != entry.Approved {
			result.Changes = append(result.Changes, DiffEntry{
				Timestamp:   entry.Timestamp,
				VerdictID:   entry.VerdictID,
				AgentID:     agentID,
				Kind:        string(entry.Kind),
				OldApproved: entry.Approved,
				NewApproved: newApproved,
				OldRisk:     entry.RiskLevel,
				NewRisk:     newRisk.String(),
				OldMessage:  entry.Message,
				NewReason:   reason,
			})
			result.ChangedVerdicts++
			if entry.Approved {
				result.NewlyRejected++
			} else {
				result.NewlyApproved++
			}
		}
	}

	return result, nil
}

// regate decides one recorded entry under the new policy.
func regate(entry audit.Entry, pol policy.RiskPolicy, validator *pattern.Validator, scorer *content.Scorer) (bool, model.RiskLevel, string) {
	if entry.Kind == model.KindText {
		report := scorer.Score(entry.Artifact, pol)
		if gate.GateContent(report, pol.MinToneScore, pol.MinProfScore) {
			return true, model.RiskLow, "content passed all checks"
		}
		if len(report.Issues) > 0 {
			return false, model.RiskHigh, fmt.Sprintf("found %d content issues", len(report.Issues))
		}
		return false, model.RiskHigh, fmt.Sprintf("scores below policy floor (tone %.2f, professionalism %.2f)",
			report.ToneScore, report.ProfessionalismScore)
	}

	// Execution outcomes cannot be reproduced without the original seed
	// state; a recorded execution failure stays rejected.
	switch model.FailureKind(entry.Failure) {
	case model.FailSandboxExecution, model.FailSandboxTimeout:
		return false, model.RiskHigh, "recorded execution failure is not replayable"
	}

	var safe bool
	var message string
	var risk model.RiskLevel
	if entry.Kind == model.KindScript {
		// Scripts are screened statement by statement, the same way the
		// sandbox screens them before execution; the whole-body table
		// alone would miss per-operation blocks.
		safe, message, risk = sandbox.ScreenScript(validator, entry.Artifact)
	} else {
		safe, message, risk = validator.Classify(entry.Artifact, entry.Kind)
	}
	if !safe {
		return false, model.RiskBlocked, message
	}
	if pol.MaxRowsAffected > 0 && entry.RowsAffected > pol.MaxRowsAffected {
		return false, model.RiskHigh, fmt.Sprintf("too many rows affected: %d > %d", entry.RowsAffected, pol.MaxRowsAffected)
	}
	if !risk.Within(pol.RiskTolerance) {
		return false, risk, fmt.Sprintf("risk %s exceeds tolerance %s", risk, pol.RiskTolerance)
	}
	return true, risk, "dry run accepted under replayed policy"
}
