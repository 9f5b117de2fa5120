package model

// RiskLevel represents the monotonic risk classification of an artifact.
// The order is total and fixed; escalation can only raise a level, never
// lower it. Blocked is maximal and unconditionally rejecting.
type RiskLevel int

const (
	RiskLow     RiskLevel = 0
	RiskMedium  RiskLevel = 1
	RiskHigh    RiskLevel = 2
	RiskBlocked RiskLevel = 3
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// ParseRiskLevel maps a label to a RiskLevel. Unknown labels resolve to
// RiskBlocked so a typo in config fails closed rather than open.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	case "blocked":
		return RiskBlocked
	default:
		return RiskBlocked
	}
}

// Escalate returns the higher of the two levels.
func Escalate(current, proposed RiskLevel) RiskLevel {
	if proposed > current {
		return proposed
	}
	return current
}

// Within reports whether r is acceptable under the given tolerance.
// A report carrying RiskBlocked never has passed=true, so blocked artifacts
// are rejected before this comparison is reached.
func (r RiskLevel) Within(tolerance RiskLevel) bool {
	return r <= tolerance
}

// MarshalYAML serializes the level as its label.
func (r RiskLevel) MarshalYAML() (any, error) {
	return r.String(), nil
}

// UnmarshalYAML parses a label, failing closed on unknown values.
func (r *RiskLevel) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*r = ParseRiskLevel(s)
	return nil
}
