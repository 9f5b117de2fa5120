package pattern

import "github.com/greenlightd/greenlight/internal/model"

// DefaultSQLRules are the built-in blocklist rules for SQL artifacts.
// These are the irreversible shapes that are always blocked — matching any
// of them short-circuits classification regardless of later escalation.
var DefaultSQLRules = []Rule{
	{
		Name:     "drop_database",
		Pattern:  `\bDROP\s+DATABASE\b`,
		Severity: model.RiskBlocked,
	},
	{
		Name:      "drop_table",
		Pattern:   `\bDROP\s+TABLE\b[^;]*`,
		Exception: `\bDROP\s+TABLE\s+IF\s+EXISTS\b`,
		Severity:  model.RiskBlocked,
	},
	{
		Name:     "truncate_table",
		Pattern:  `\bTRUNCATE\s+TABLE\b`,
		Severity: model.RiskBlocked,
	},
	{
		// Matches the whole statement regardless of table spelling
		// (qualified, quoted) or trailing clauses; only a WHERE within
		// the same statement excepts it.
		Name:      "delete_without_where",
		Pattern:   `\bDELETE\s+FROM\b[^;]*`,
		Exception: `\bWHERE\b`,
		Severity:  model.RiskBlocked,
	},
	{
		Name:      "update_without_where",
		Pattern:   `\bUPDATE\b[^;]*\bSET\b[^;]*`,
		Exception: `\bWHERE\b`,
		Severity:  model.RiskBlocked,
	},
	{
		Name:     "injection_comment_drop",
		Pattern:  `--[^\n]*DROP`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "injection_stacked_drop",
		Pattern:  `;\s*DROP`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "grant_all",
		Pattern:  `\bGRANT\s+ALL\b`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "create_user",
		Pattern:  `\bCREATE\s+USER\b`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "alter_user",
		Pattern:  `\bALTER\s+USER\b`,
		Severity: model.RiskBlocked,
	},
}

// DefaultScriptRules are the built-in blocklist rules for script artifacts.
// Anything resembling process spawning, arbitrary evaluation, unrestricted
// imports, destructive filesystem calls, or outbound delete-style network
// calls is blocked before the sandbox is touched.
var DefaultScriptRules = []Rule{
	{
		Name:     "process_spawn",
		Pattern:  `\b(os\.system|subprocess|popen|spawn|fork\s*\()`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "arbitrary_eval",
		Pattern:  `\b(eval|exec)\s*\(`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "unrestricted_import",
		Pattern:  `__import__|\bimportlib\b`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "filesystem_destroy",
		Pattern:  `\b(shutil\.rmtree|os\.remove|os\.unlink|rmtree|unlink)\s*\(|\brm\s+-rf\b`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "file_write",
		Pattern:  `\bopen\s*\([^)]*['"]w['"]`,
		Severity: model.RiskBlocked,
	},
	{
		Name:     "network_delete",
		Pattern:  `\b(requests|httpx|http)\.delete\b|\bDELETE\s+http`,
		Severity: model.RiskBlocked,
	},
}

// DefaultSQLTable returns the compiled built-in SQL blocklist.
func DefaultSQLTable() *Table {
	return MustTable(DefaultSQLRules)
}

// DefaultScriptTable returns the compiled built-in script blocklist.
func DefaultScriptTable() *Table {
	return MustTable(DefaultScriptRules)
}
