package model

// FailureKind names the terminal failure categories of the gate.
// None of these is retried inside the gate; all are surfaced to the caller
// as structured reports, never as raw errors.
type FailureKind string

const (
	FailBlockedPattern   FailureKind = "blocked_pattern"
	FailSandboxExecution FailureKind = "sandbox_execution"
	FailResourceLimit    FailureKind = "resource_limit"
	FailSandboxTimeout   FailureKind = "sandbox_timeout"
	FailContentPolicy    FailureKind = "content_policy"
)

// SandboxReport is the outcome of a code artifact dry run.
// A SandboxReport is only ever produced from an artifact that first passed
// static classification; blocked artifacts short-circuit before any
// execution resource is touched.
type SandboxReport struct {
	Passed             bool        `json:"passed"`
	RiskLevel          RiskLevel   `json:"risk_level"`
	Message            string      `json:"message"`
	RowsAffected       int         `json:"rows_affected"`
	RawOutput          string      `json:"raw_output,omitempty"`
	VerificationPassed bool        `json:"verification_passed,omitempty"`
	Failure            FailureKind `json:"failure,omitempty"`
}

// ContentReport is the outcome of scoring a text artifact against tone and
// safety policy. Scores are always within [0,1].
type ContentReport struct {
	Passed               bool     `json:"passed"`
	Issues               []string `json:"issues,omitempty"`
	ToneScore            float64  `json:"tone_score"`
	ProfessionalismScore float64  `json:"professionalism_score"`
}

// Verdict is the single object downstream collaborators are permitted to
// act on. Billing must only charge when Approved is true; real execution
// must only proceed on Approved and must reuse the exact verified artifact.
// Immutable after creation.
type Verdict struct {
	ID           string       `json:"id"`
	AgentID      string       `json:"agent_id,omitempty"`
	Kind         ArtifactKind `json:"kind"`
	Approved     bool         `json:"approved"`
	RiskLevel    RiskLevel    `json:"risk_level"`
	RowsAffected int          `json:"rows_affected"`
	Issues       []string     `json:"issues,omitempty"`
	ToneScore    float64      `json:"tone_score,omitempty"`
	ProfScore    float64      `json:"professionalism_score,omitempty"`
	Message      string       `json:"message"`
	Failure      FailureKind  `json:"failure,omitempty"`
}
