package audit

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/greenlightd/greenlight/internal/model"
)

// TimestampFormat is the wire format for entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Entry is one verdict record in the hash-chained JSONL log.
// All fields are scalars or structs (no map[string]any) to guarantee
// deterministic json.Marshal field order for reproducible hashing.
// The billing collaborator reads this log and must only act on entries
// with approved=true.
type Entry struct {
	Timestamp    string             `json:"ts"`
	VerdictID    string             `json:"verdict_id"`
	AgentID      string             `json:"agent_id,omitempty"`
	Kind         model.ArtifactKind `json:"kind"`
	Artifact     string             `json:"artifact"`
	ArtifactHash string             `json:"artifact_sha256"`
	Approved     bool               `json:"approved"`
	RiskLevel    string             `json:"risk_level"`
	RowsAffected int                `json:"rows_affected,omitempty"`
	ToneScore    float64            `json:"tone_score,omitempty"`
	ProfScore    float64            `json:"professionalism_score,omitempty"`
	Failure      string             `json:"failure,omitempty"`
	Message      string             `json:"message,omitempty"`
	PolicyHash   string             `json:"policy_hash,omitempty"`
	PrevHash     string             `json:"prev_hash"`
}

// NewEntry builds an Entry from a verdict and its source artifact.
// Timestamp and PrevHash are filled in by Log.Record.
func NewEntry(v model.Verdict, artifact model.Artifact, policyHash string) Entry {
	return Entry{
		VerdictID:    v.ID,
		AgentID:      v.AgentID,
		Kind:         v.Kind,
		Artifact:     artifact.Body,
		ArtifactHash: HashArtifact(artifact.Body),
		Approved:     v.Approved,
		RiskLevel:    v.RiskLevel.String(),
		RowsAffected: v.RowsAffected,
		ToneScore:    v.ToneScore,
		ProfScore:    v.ProfScore,
		Failure:      string(v.Failure),
		Message:      v.Message,
		PolicyHash:   policyHash,
	}
}

// HashArtifact returns "sha256:<hex>" of the artifact body, so downstream
// collaborators can confirm they are applying the exact artifact that was
// verified.
func HashArtifact(body string) string {
	h := sha256.Sum256([]byte(body))
	return "sha256:" + hex.EncodeToString(h[:])
}
