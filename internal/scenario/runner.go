package scenario

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/greenlightd/greenlight/internal/content"
	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/pattern"
	"github.com/greenlightd/greenlight/internal/pipeline"
	"github.com/greenlightd/greenlight/internal/policy"
	"github.com/greenlightd/greenlight/internal/sandbox"
)

// Run verifies all cases in a scenario through the given pipeline.
// Each code case gets its own disposable sandbox state (cases are
// independent).
func Run(ctx context.Context, s *Scenario, p *pipeline.Pipeline) *RunResult {
	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		artifact := model.Artifact{
			Kind: model.ArtifactKind(c.Artifact.Kind),
			Body: c.Artifact.Body,
		}
		seed := sandbox.Seed{
			Schema:            c.Seed.Schema,
			Data:              c.Seed.Data,
			VerificationQuery: c.Seed.VerificationQuery,
		}

		cr := CaseResult{
			Index:    i + 1,
			Kind:     c.Artifact.Kind,
			Agent:    c.Agent,
			Expected: strings.ToLower(c.Expect),
		}

		verdict, err := p.Verify(ctx, c.Agent, artifact, seed)
		if err != nil {
			cr.Actual = "error"
			cr.Message = err.Error()
		} else {
			cr.Actual = "reject"
			if verdict.Approved {
				cr.Actual = "approve"
			}
			cr.Failure = string(verdict.Failure)
			cr.Message = verdict.Message
		}

		cr.Passed = cr.Actual == cr.Expected
		if cr.Passed && c.Failure != "" && cr.Failure != c.Failure {
			cr.Passed = false
			cr.Message = fmt.Sprintf("expected failure %s, got %s", c.Failure, cr.Failure)
		}

		if cr.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Cases = append(result.Cases, cr)
	}

	return result
}

// LoadAndRun loads a scenario YAML file, builds a pipeline from the
// policy at policyPath, and runs every case.
func LoadAndRun(ctx context.Context, path, policyPath string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	store, err := policy.NewStore(policyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	sb := sandbox.New(pattern.NewValidator(), store.Config().SandboxTimeout())
	p := pipeline.New(sb, content.NewScorer(), store, nil)

	result := Run(ctx, &s, p)
	result.File = path

	return result, nil
}
