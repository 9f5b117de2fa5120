// Package sandbox executes code artifacts against disposable state.
// Every dry run owns a fresh in-memory SQLite instance that is torn down on
// every exit path; nothing a dry run does can reach persistent state.
package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/pattern"
	"github.com/greenlightd/greenlight/internal/policy"
)

// Seed reproduces the caller's schema shape inside the disposable instance.
// VerificationQuery, when set, is run after a successful dry run; it passes
// if it returns at least one row. Verification is advisory — a failing
// query is surfaced in the report message but does not flip the result.
type Seed struct {
	Schema            string
	Data              string
	VerificationQuery string
}

// Sandbox performs isolated dry runs of code artifacts.
// Safe for concurrent use: each call allocates and owns its storage.
type Sandbox struct {
	validator *pattern.Validator
	timeout   time.Duration
}

// New creates a Sandbox. A non-positive timeout disables the deadline.
func New(validator *pattern.Validator, timeout time.Duration) *Sandbox {
	return &Sandbox{validator: validator, timeout: timeout}
}

// DryRun re-validates the artifact statically, then executes it against a
// fresh disposable database and reports the predicted effect. The static
// check always runs first; a blocked artifact never touches any execution
// resource.
func (s *Sandbox) DryRun(ctx context.Context, code string, kind model.ArtifactKind, seed Seed, pol policy.RiskPolicy) model.SandboxReport {
	safe, message, risk := s.validator.Classify(code, kind)
	if !safe {
		return model.SandboxReport{
			Passed:    false,
			RiskLevel: model.RiskBlocked,
			Message:   message,
			Failure:   model.FailBlockedPattern,
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return executionFailure(ctx, fmt.Errorf("allocate sandbox storage: %w", err))
	}
	// One connection, or the pool would hand out separate :memory: databases.
	db.SetMaxOpenConns(1)
	defer db.Close()

	if err := applySeed(ctx, db, seed); err != nil {
		return executionFailure(ctx, fmt.Errorf("apply seed: %w", err))
	}

	var rowsAffected int
	switch kind {
	case model.KindSQL:
		rowsAffected, err = runStatements(ctx, db, code)
	case model.KindScript:
		rowsAffected, err = runScript(ctx, db, s.validator, code)
	default:
		err = fmt.Errorf("unsupported artifact kind %q", kind)
	}
	if err != nil {
		var blocked *blockedOpError
		if errors.As(err, &blocked) {
			return model.SandboxReport{
				Passed:    false,
				RiskLevel: model.RiskBlocked,
				Message:   blocked.Error(),
				Failure:   model.FailBlockedPattern,
			}
		}
		return executionFailure(ctx, err)
	}

	if pol.MaxRowsAffected > 0 && rowsAffected > pol.MaxRowsAffected {
		return model.SandboxReport{
			Passed:       false,
			RiskLevel:    model.RiskHigh,
			Message:      fmt.Sprintf("too many rows affected: %d > %d", rowsAffected, pol.MaxRowsAffected),
			RowsAffected: rowsAffected,
			Failure:      model.FailResourceLimit,
		}
	}

	report := model.SandboxReport{
		Passed:       true,
		RiskLevel:    risk,
		Message:      "dry run completed",
		RowsAffected: rowsAffected,
		RawOutput:    fmt.Sprintf("predicted %d rows affected", rowsAffected),
	}

	if seed.VerificationQuery != "" {
		ok, note := runVerification(ctx, db, seed.VerificationQuery)
		report.VerificationPassed = ok
		if note != "" {
			report.Message = report.Message + "; " + note
		}
	}

	return report
}

// runStatements executes the artifact statement by statement, accumulating
// a non-negative rows-affected count. Each statement's effect is added only
// if positive.
func runStatements(ctx context.Context, db *sql.DB, code string) (int, error) {
	total := 0
	for _, stmt := range SplitStatements(code) {
		res, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return total, fmt.Errorf("statement %q: %w", truncate(stmt, 80), err)
		}
		if rows, err := res.RowsAffected(); err == nil && rows > 0 {
			total += int(rows)
		}
	}
	return total, nil
}

func applySeed(ctx context.Context, db *sql.DB, seed Seed) error {
	for _, stmt := range SplitStatements(seed.Schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	for _, stmt := range SplitStatements(seed.Data) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("data: %w", err)
		}
	}
	return nil
}

// runVerification runs the advisory verification query. Passing means the
// query returned at least one row.
func runVerification(ctx context.Context, db *sql.DB, query string) (bool, string) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return false, fmt.Sprintf("verification query failed: %v", err)
	}
	defer rows.Close()

	if rows.Next() {
		return true, "verification query passed"
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Sprintf("verification query failed: %v", err)
	}
	return false, "verification query returned no results"
}

// executionFailure maps an execution error to a failed report, telling
// timeouts apart from ordinary failures. Either way the disposable instance
// is already on its way down via defer.
func executionFailure(ctx context.Context, err error) model.SandboxReport {
	failure := model.FailSandboxExecution
	message := fmt.Sprintf("dry run failed: %v", err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		failure = model.FailSandboxTimeout
		message = "dry run timed out"
	} else if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		failure = model.FailSandboxTimeout
		message = "dry run cancelled"
	}
	return model.SandboxReport{
		Passed:    false,
		RiskLevel: model.RiskHigh,
		Message:   message,
		Failure:   failure,
	}
}

// SplitStatements splits SQL text on semicolons, dropping empty fragments.
func SplitStatements(code string) []string {
	var out []string
	for _, part := range strings.Split(code, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
