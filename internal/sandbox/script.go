package sandbox

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/pattern"
)

// Script artifacts are not executed as free-form code. They must parse as a
// newline-separated list of constrained operations, each reaching only the
// sandbox's own storage handle:
//
//	exec <sql>           run a statement, counting affected rows
//	query <sql>          run a read-only query
//	assert-rows <n> <sql> fail unless the query returns exactly n rows
//
// Every embedded statement is re-screened against the SQL blocklist before
// it runs. Anything outside this set fails closed.

// scriptOp is one parsed operation.
type scriptOp struct {
	verb string
	sql  string
	want int // assert-rows expectation
}

// blockedOpError marks a script operation rejected by the SQL blocklist.
type blockedOpError struct {
	reason string
}

func (e *blockedOpError) Error() string {
	return "script operation blocked: " + e.reason
}

// parseScript parses the constrained operation list. Blank lines and
// #-comments are skipped.
func parseScript(code string) ([]scriptOp, error) {
	var ops []scriptOp
	for i, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "exec", "query":
			if rest == "" {
				return nil, fmt.Errorf("line %d: %s requires a statement", i+1, verb)
			}
			ops = append(ops, scriptOp{verb: verb, sql: rest})
		case "assert-rows":
			countStr, query, ok := strings.Cut(rest, " ")
			if !ok {
				return nil, fmt.Errorf("line %d: assert-rows requires a count and a query", i+1)
			}
			want, err := strconv.Atoi(countStr)
			if err != nil || want < 0 {
				return nil, fmt.Errorf("line %d: invalid assert-rows count %q", i+1, countStr)
			}
			query = strings.TrimSpace(query)
			if query == "" {
				return nil, fmt.Errorf("line %d: assert-rows requires a query", i+1)
			}
			ops = append(ops, scriptOp{verb: verb, sql: query, want: want})
		default:
			return nil, fmt.Errorf("line %d: operation %q is not allow-listed", i+1, verb)
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("script contains no operations")
	}
	return ops, nil
}

// ScreenScript runs the static half of a script dry run: the whole-body
// blocklist, the operation grammar, and the per-operation SQL screen.
// Nothing executes, so it also serves re-gating recorded scripts. The
// returned risk is the whole-body classification, matching what a passing
// dry run reports.
func ScreenScript(validator *pattern.Validator, code string) (bool, string, model.RiskLevel) {
	safe, message, risk := validator.Classify(code, model.KindScript)
	if !safe {
		return false, message, risk
	}
	ops, err := parseScript(code)
	if err != nil {
		return false, err.Error(), model.RiskHigh
	}
	for _, op := range ops {
		if opSafe, opMessage, opRisk := validator.Classify(op.sql, model.KindSQL); !opSafe {
			return false, (&blockedOpError{reason: opMessage}).Error(), opRisk
		}
	}
	return true, message, risk
}

// runScript executes a parsed operation list against the sandbox handle,
// accumulating affected rows from exec operations.
func runScript(ctx context.Context, db *sql.DB, validator *pattern.Validator, code string) (int, error) {
	ops, err := parseScript(code)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, op := range ops {
		if safe, message, _ := validator.Classify(op.sql, model.KindSQL); !safe {
			return total, &blockedOpError{reason: message}
		}

		switch op.verb {
		case "exec":
			res, err := db.ExecContext(ctx, op.sql)
			if err != nil {
				return total, fmt.Errorf("exec %q: %w", truncate(op.sql, 80), err)
			}
			if rows, err := res.RowsAffected(); err == nil && rows > 0 {
				total += int(rows)
			}
		case "query":
			rows, err := db.QueryContext(ctx, op.sql)
			if err != nil {
				return total, fmt.Errorf("query %q: %w", truncate(op.sql, 80), err)
			}
			for rows.Next() {
			}
			err = rows.Err()
			rows.Close()
			if err != nil {
				return total, fmt.Errorf("query %q: %w", truncate(op.sql, 80), err)
			}
		case "assert-rows":
			got, err := countRows(ctx, db, op.sql)
			if err != nil {
				return total, fmt.Errorf("assert-rows %q: %w", truncate(op.sql, 80), err)
			}
			if got != op.want {
				return total, fmt.Errorf("assert-rows %q: got %d rows, want %d", truncate(op.sql, 80), got, op.want)
			}
		}
	}
	return total, nil
}

func countRows(ctx context.Context, db *sql.DB, query string) (int, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}
