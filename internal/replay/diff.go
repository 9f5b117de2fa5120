package replay

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiffEntry represents one verdict whose decision changed under the
// replayed policy.
type DiffEntry struct {
	Timestamp   string `json:"ts"`
	VerdictID   string `json:"verdict_id"`
	AgentID     string `json:"agent_id,omitempty"`
	Kind        string `json:"kind"`
	OldApproved bool   `json:"old_approved"`
	NewApproved bool   `json:"new_approved"`
	OldRisk     string `json:"old_risk"`
	NewRisk     string `json:"new_risk"`
	OldMessage  string `json:"old_message,omitempty"`
	NewReason   string `json:"new_reason"`
}

// Result holds the complete replay output.
type Result struct {
	PolicyPath      string      `json:"policy_path"`
	TotalVerdicts   int         `json:"total_verdicts"`
	ChangedVerdicts int         `json:"changed_verdicts"`
	NewlyRejected   int         `json:"newly_rejected"`
	NewlyApproved   int         `json:"newly_approved"`
	Changes         []DiffEntry `json:"changes"`
}

// FormatText renders the replay result as human-readable text.
func FormatText(r *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Replaying %s against %d recorded verdicts...\n", r.PolicyPath, r.TotalVerdicts)

	if len(r.Changes) == 0 {
		b.WriteString("\nNo changes detected.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, d := range r.Changes {
		ts := d.Timestamp
		if len(ts) > 19 {
			ts = ts[11:19]
		}
		fmt.Fprintf(&b, "  CHANGED  %s  %-8s %-6s %s -> %s (%s)\n",
			ts, d.VerdictID, d.Kind, decision(d.OldApproved), decision(d.NewApproved), d.NewReason)
	}

	fmt.Fprintf(&b, "\n%d of %d verdicts changed.", r.ChangedVerdicts, r.TotalVerdicts)
	if r.NewlyRejected > 0 || r.NewlyApproved > 0 {
		fmt.Fprintf(&b, " %d newly rejected, %d newly approved.", r.NewlyRejected, r.NewlyApproved)
	}
	b.WriteString("\n")

	return b.String()
}

// FormatJSON renders the replay result as JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal replay result: %w", err)
	}
	return string(data), nil
}

func decision(approved bool) string {
	if approved {
		return "approve"
	}
	return "reject"
}
