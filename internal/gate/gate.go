// Package gate holds the total-order risk comparison that turns reports
// into a proceed/reject boolean. This is the only place in the system where
// that boolean is produced.
package gate

import "github.com/greenlightd/greenlight/internal/model"

// GateCode decides whether a code artifact may proceed to billing and real
// execution. True iff the dry run passed and its risk level is within the
// policy tolerance under the fixed total order low < medium < high < blocked.
func GateCode(report model.SandboxReport, tolerance model.RiskLevel) bool {
	if !report.Passed {
		return false
	}
	return report.RiskLevel.Within(tolerance)
}

// GateContent decides whether a text artifact may be sent and billed.
// False if the content report failed or either score is below its floor.
func GateContent(report model.ContentReport, minTone, minProf float64) bool {
	if !report.Passed {
		return false
	}
	if report.ToneScore < minTone {
		return false
	}
	if report.ProfessionalismScore < minProf {
		return false
	}
	return true
}
