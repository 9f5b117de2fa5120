package scenario

// CaseArtifact is the artifact under test.
type CaseArtifact struct {
	Kind string `yaml:"kind"`
	Body string `yaml:"body"`
}

// CaseSeed describes the disposable state a code case dry-runs against.
type CaseSeed struct {
	Schema            string `yaml:"schema,omitempty"`
	Data              string `yaml:"data,omitempty"`
	VerificationQuery string `yaml:"verification_query,omitempty"`
}

// Case is one verification case within a scenario.
type Case struct {
	Artifact CaseArtifact `yaml:"artifact"`
	Seed     CaseSeed     `yaml:"seed,omitempty"`
	Agent    string       `yaml:"agent,omitempty"`
	Expect   string       `yaml:"expect"`
	Failure  string       `yaml:"failure,omitempty"`
}

// Scenario is a named collection of verification cases.
type Scenario struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of verifying one case.
type CaseResult struct {
	Index    int    `json:"index"`
	Passed   bool   `json:"passed"`
	Kind     string `json:"kind"`
	Agent    string `json:"agent,omitempty"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Failure  string `json:"failure,omitempty"`
	Message  string `json:"message"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
