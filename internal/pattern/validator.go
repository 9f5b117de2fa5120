package pattern

import (
	"fmt"
	"strings"

	"github.com/greenlightd/greenlight/internal/model"
)

// Validator performs static lexical risk classification of code artifacts.
// Pure: no side effects, no I/O, deterministic given its tables.
type Validator struct {
	sqlTable    *Table
	scriptTable *Table
}

// NewValidator creates a Validator with the built-in blocklist tables.
func NewValidator() *Validator {
	return &Validator{
		sqlTable:    DefaultSQLTable(),
		scriptTable: DefaultScriptTable(),
	}
}

// NewValidatorWithTables creates a Validator with custom tables, for tests.
func NewValidatorWithTables(sqlTable, scriptTable *Table) *Validator {
	return &Validator{sqlTable: sqlTable, scriptTable: scriptTable}
}

// Classify statically classifies a code artifact.
// The first matching blocklist rule short-circuits with risk blocked.
// Otherwise risk escalates monotonically over heuristic indicators and the
// artifact is reported safe at the escalated level.
func (v *Validator) Classify(code string, kind model.ArtifactKind) (safe bool, message string, risk model.RiskLevel) {
	table := v.scriptTable
	if kind == model.KindSQL {
		table = v.sqlTable
	}

	if rule, ok := table.Match(code); ok {
		return false, fmt.Sprintf("blocked pattern detected: %s", rule.Name), model.RiskBlocked
	}

	risk = model.RiskLow
	if kind == model.KindSQL {
		upper := strings.ToUpper(code)
		if strings.Contains(upper, "DELETE") {
			risk = model.Escalate(risk, model.RiskMedium)
		}
		if strings.Contains(upper, "ALTER") {
			risk = model.Escalate(risk, model.RiskMedium)
		}
		if strings.Contains(upper, "DROP") {
			risk = model.Escalate(risk, model.RiskHigh)
		}
	}

	return true, "static analysis passed", risk
}
