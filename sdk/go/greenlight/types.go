package greenlight

import (
	"fmt"

	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/sandbox"
)

// Kind identifies the artifact family.
type Kind string

const (
	KindSQL    Kind = Kind(model.KindSQL)
	KindScript Kind = Kind(model.KindScript)
	KindText   Kind = Kind(model.KindText)
)

// Artifact is one machine-generated item submitted for verification.
type Artifact struct {
	Kind Kind
	Body string
}

// Seed reproduces the caller's schema shape inside the disposable sandbox
// database. Ignored for text artifacts.
type Seed struct {
	Schema            string
	Data              string
	VerificationQuery string
}

// Verdict is the verification outcome.
type Verdict struct {
	ID           string
	Approved     bool
	RiskLevel    string
	RowsAffected int
	ToneScore    float64
	ProfScore    float64
	Issues       []string
	Failure      string
	Message      string
}

// RejectionError is returned by Guard when a verdict rejects the artifact.
type RejectionError struct {
	Artifact Artifact
	Verdict  Verdict
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("greenlight rejected (%s): %s", e.Verdict.RiskLevel, e.Verdict.Message)
}

// toInternalArtifact maps an SDK Artifact to an internal model.Artifact.
func toInternalArtifact(a Artifact) model.Artifact {
	return model.Artifact{Kind: model.ArtifactKind(a.Kind), Body: a.Body}
}

// toInternalSeed maps an SDK Seed to an internal sandbox.Seed.
func toInternalSeed(s Seed) sandbox.Seed {
	return sandbox.Seed{
		Schema:            s.Schema,
		Data:              s.Data,
		VerificationQuery: s.VerificationQuery,
	}
}

// toVerdict maps an internal model.Verdict to an SDK Verdict.
func toVerdict(v model.Verdict) Verdict {
	return Verdict{
		ID:           v.ID,
		Approved:     v.Approved,
		RiskLevel:    v.RiskLevel.String(),
		RowsAffected: v.RowsAffected,
		ToneScore:    v.ToneScore,
		ProfScore:    v.ProfScore,
		Issues:       v.Issues,
		Failure:      string(v.Failure),
		Message:      v.Message,
	}
}
