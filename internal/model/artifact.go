package model

// ArtifactKind distinguishes the payload types the gate can verify.
type ArtifactKind string

const (
	KindSQL    ArtifactKind = "sql"
	KindScript ArtifactKind = "script"
	KindText   ArtifactKind = "text"
)

// IsCode reports whether the kind takes the code verification path
// (static classification followed by a sandbox dry run).
func (k ArtifactKind) IsCode() bool {
	return k == KindSQL || k == KindScript
}

// Valid reports whether the kind is one the gate recognizes.
func (k ArtifactKind) Valid() bool {
	return k == KindSQL || k == KindScript || k == KindText
}

// Artifact is a generated payload awaiting verification. Immutable once
// produced: a rejected artifact is discarded, never mutated or retried —
// retry means the generator produces a fresh artifact.
type Artifact struct {
	Kind ArtifactKind `json:"kind"`
	Body string       `json:"body"`
}
