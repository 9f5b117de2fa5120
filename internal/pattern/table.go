package pattern

import (
	"regexp"

	"github.com/greenlightd/greenlight/internal/model"
)

// Rule is one entry in a blocklist table: a pattern, an optional exception
// pattern evaluated against the matched region, and the severity a match
// carries. Rules with Severity RiskBlocked short-circuit classification.
type Rule struct {
	Name      string
	Pattern   string
	Exception string
	Severity  model.RiskLevel
}

// compiledRule pairs a Rule with its compiled regexes.
type compiledRule struct {
	rule      Rule
	pattern   *regexp.Regexp
	exception *regexp.Regexp
}

// Table holds compiled rules for one artifact kind.
type Table struct {
	rules []compiledRule
}

// NewTable compiles a rule set. Patterns are matched case-insensitively
// with . spanning newlines, so multi-line statements are covered.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{}
	for _, r := range rules {
		re, err := regexp.Compile("(?is)" + r.Pattern)
		if err != nil {
			return nil, err
		}
		cr := compiledRule{rule: r, pattern: re}
		if r.Exception != "" {
			ex, err := regexp.Compile("(?is)" + r.Exception)
			if err != nil {
				return nil, err
			}
			cr.exception = ex
		}
		t.rules = append(t.rules, cr)
	}
	return t, nil
}

// MustTable compiles a rule set and panics on an invalid pattern.
// Only used for the built-in tables, which are covered by tests.
func MustTable(rules []Rule) *Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Match returns the first rule the code triggers, honoring exceptions.
// Exceptions are evaluated per match region, so one excepted occurrence
// never shadows a later offending one.
func (t *Table) Match(code string) (Rule, bool) {
	for _, cr := range t.rules {
		for _, loc := range cr.pattern.FindAllString(code, -1) {
			if loc == "" {
				continue
			}
			if cr.exception != nil && cr.exception.MatchString(loc) {
				continue
			}
			return cr.rule, true
		}
	}
	return Rule{}, false
}

// Rules returns the raw rule set, for inspection and tests.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for _, cr := range t.rules {
		out = append(out, cr.rule)
	}
	return out
}
