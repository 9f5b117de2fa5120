package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/sandbox"
)

// --- Input/Output types ---

// VerifySQLInput defines parameters for the greenlight_verify_sql tool.
type VerifySQLInput struct {
	SQL               string `json:"sql" jsonschema:"SQL artifact to verify"`
	Agent             string `json:"agent,omitempty" jsonschema:"agent ID whose policy applies"`
	Schema            string `json:"schema,omitempty" jsonschema:"DDL to seed the disposable database"`
	Data              string `json:"data,omitempty" jsonschema:"DML to seed the disposable database"`
	VerificationQuery string `json:"verification_query,omitempty" jsonschema:"advisory query run after the dry run; passes if it returns rows"`
}

// VerifyScriptInput defines parameters for the greenlight_verify_script tool.
type VerifyScriptInput struct {
	Script string `json:"script" jsonschema:"script artifact (exec/query/assert-rows lines) to verify"`
	Agent  string `json:"agent,omitempty" jsonschema:"agent ID whose policy applies"`
	Schema string `json:"schema,omitempty" jsonschema:"DDL to seed the disposable database"`
	Data   string `json:"data,omitempty" jsonschema:"DML to seed the disposable database"`
}

// VerifyTextInput defines parameters for the greenlight_verify_text tool.
type VerifyTextInput struct {
	Text  string `json:"text" jsonschema:"natural-language artifact to verify"`
	Agent string `json:"agent,omitempty" jsonschema:"agent ID whose policy applies"`
}

// VerdictOutput contains the verification verdict for any artifact kind.
type VerdictOutput struct {
	VerdictID    string   `json:"verdict_id"`
	Approved     bool     `json:"approved"`
	RiskLevel    string   `json:"risk_level"`
	RowsAffected int      `json:"rows_affected,omitempty"`
	ToneScore    float64  `json:"tone_score,omitempty"`
	ProfScore    float64  `json:"professionalism_score,omitempty"`
	Issues       []string `json:"issues,omitempty"`
	Failure      string   `json:"failure,omitempty"`
	Message      string   `json:"message"`
}

// PolicyShowInput defines parameters for the greenlight_policy_show tool.
type PolicyShowInput struct {
	Agent string `json:"agent,omitempty" jsonschema:"agent ID; omit for the default policy"`
}

// PolicyShowOutput describes the effective policy for an agent.
type PolicyShowOutput struct {
	Agent            string   `json:"agent,omitempty"`
	MaxRowsAffected  int      `json:"max_rows_affected"`
	RiskTolerance    string   `json:"risk_tolerance"`
	RequiredTone     string   `json:"required_tone"`
	MaxContentLength int      `json:"max_content_length"`
	MinToneScore     float64  `json:"min_tone_score"`
	MinProfScore     float64  `json:"min_professionalism_score"`
	ForbiddenPhrases []string `json:"forbidden_phrases,omitempty"`
	PolicyHash       string   `json:"policy_hash"`
}

// --- Handlers ---

func (s *Server) handleVerifySQL(ctx context.Context, req *mcpsdk.CallToolRequest, input VerifySQLInput) (*mcpsdk.CallToolResult, VerdictOutput, error) {
	artifact := model.Artifact{Kind: model.KindSQL, Body: input.SQL}
	seed := sandbox.Seed{
		Schema:            input.Schema,
		Data:              input.Data,
		VerificationQuery: input.VerificationQuery,
	}
	return s.verify(ctx, input.Agent, artifact, seed)
}

func (s *Server) handleVerifyScript(ctx context.Context, req *mcpsdk.CallToolRequest, input VerifyScriptInput) (*mcpsdk.CallToolResult, VerdictOutput, error) {
	artifact := model.Artifact{Kind: model.KindScript, Body: input.Script}
	seed := sandbox.Seed{Schema: input.Schema, Data: input.Data}
	return s.verify(ctx, input.Agent, artifact, seed)
}

func (s *Server) handleVerifyText(ctx context.Context, req *mcpsdk.CallToolRequest, input VerifyTextInput) (*mcpsdk.CallToolResult, VerdictOutput, error) {
	artifact := model.Artifact{Kind: model.KindText, Body: input.Text}
	return s.verify(ctx, input.Agent, artifact, sandbox.Seed{})
}

// verify runs the pipeline and maps rejections to IsError results so MCP
// clients treat them as tool failures.
func (s *Server) verify(ctx context.Context, agent string, artifact model.Artifact, seed sandbox.Seed) (*mcpsdk.CallToolResult, VerdictOutput, error) {
	if agent == "" {
		agent = s.agentID
	}

	verdict, err := s.pipeline.Verify(ctx, agent, artifact, seed)
	if err != nil {
		return nil, VerdictOutput{}, err
	}

	out := VerdictOutput{
		VerdictID:    verdict.ID,
		Approved:     verdict.Approved,
		RiskLevel:    verdict.RiskLevel.String(),
		RowsAffected: verdict.RowsAffected,
		ToneScore:    verdict.ToneScore,
		ProfScore:    verdict.ProfScore,
		Issues:       verdict.Issues,
		Failure:      string(verdict.Failure),
		Message:      verdict.Message,
	}
	if !verdict.Approved {
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handlePolicyShow(ctx context.Context, req *mcpsdk.CallToolRequest, input PolicyShowInput) (*mcpsdk.CallToolResult, PolicyShowOutput, error) {
	agent := input.Agent
	if agent == "" {
		agent = s.agentID
	}
	pol := s.policies.PolicyFor(agent)

	return nil, PolicyShowOutput{
		Agent:            agent,
		MaxRowsAffected:  pol.MaxRowsAffected,
		RiskTolerance:    pol.RiskTolerance.String(),
		RequiredTone:     string(pol.RequiredTone),
		MaxContentLength: pol.MaxContentLength,
		MinToneScore:     pol.MinToneScore,
		MinProfScore:     pol.MinProfScore,
		ForbiddenPhrases: pol.ForbiddenPhrases,
		PolicyHash:       s.policies.Hash(),
	}, nil
}
