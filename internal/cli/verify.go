package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenlightd/greenlight/internal/audit"
	"github.com/greenlightd/greenlight/internal/content"
	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/pattern"
	"github.com/greenlightd/greenlight/internal/pipeline"
	"github.com/greenlightd/greenlight/internal/policy"
	"github.com/greenlightd/greenlight/internal/sandbox"
)

var (
	verifyKind       string
	verifyAgent      string
	verifyPolicy     string
	verifySchema     string
	verifyData       string
	verifyQuery      string
	verifyVerdictLog string
	verifyFormat     string
)

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyKind, "kind", "k", "sql", "Artifact kind (sql|script|text)")
	verifyCmd.Flags().StringVar(&verifyAgent, "agent", "", "Agent ID whose policy applies")
	verifyCmd.Flags().StringVar(&verifyPolicy, "policy", "", "Path to policy YAML (default ~/.greenlight/policy.yaml)")
	verifyCmd.Flags().StringVar(&verifySchema, "schema", "", "Path to DDL file seeding the disposable database")
	verifyCmd.Flags().StringVar(&verifyData, "data", "", "Path to DML file seeding the disposable database")
	verifyCmd.Flags().StringVar(&verifyQuery, "verification-query", "", "Advisory query run after the dry run")
	verifyCmd.Flags().StringVar(&verifyVerdictLog, "verdict-log", "", "Append the verdict to a hash-chained JSONL log")
	verifyCmd.Flags().StringVarP(&verifyFormat, "format", "f", "text", "Output format (text|json)")
}

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Verify one artifact and print its verdict",
	Long: "Reads an artifact from a file or stdin and runs it through the gate.\n" +
		"Code artifacts are classified statically, then dry-run against a fresh\n" +
		"disposable database. Text artifacts are scored for tone and safety.\n\n" +
		"Exit code 0 if approved, 77 if rejected.",
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	body, err := readArtifact(args)
	if err != nil {
		return err
	}

	kind := model.ArtifactKind(verifyKind)
	if !kind.Valid() {
		return fmt.Errorf("unknown artifact kind %q (want sql, script, or text)", verifyKind)
	}

	store, err := policy.NewStore(verifyPolicy)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	var verdictLog *audit.Log
	if verifyVerdictLog != "" {
		verdictLog, err = audit.Open(verifyVerdictLog)
		if err != nil {
			return fmt.Errorf("open verdict log: %w", err)
		}
		defer verdictLog.Close()
	}

	seed := sandbox.Seed{VerificationQuery: verifyQuery}
	if verifySchema != "" {
		data, err := os.ReadFile(verifySchema)
		if err != nil {
			return fmt.Errorf("read schema: %w", err)
		}
		seed.Schema = string(data)
	}
	if verifyData != "" {
		data, err := os.ReadFile(verifyData)
		if err != nil {
			return fmt.Errorf("read data: %w", err)
		}
		seed.Data = string(data)
	}

	sb := sandbox.New(pattern.NewValidator(), store.Config().SandboxTimeout())
	p := pipeline.New(sb, content.NewScorer(), store, verdictLog)

	verdict, err := p.Verify(context.Background(), verifyAgent, model.Artifact{Kind: kind, Body: body}, seed)
	if err != nil {
		return err
	}

	switch verifyFormat {
	case "json":
		out, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		printVerdict(verdict)
	}

	if !verdict.Approved {
		if verdictLog != nil {
			verdictLog.Close()
		}
		os.Exit(77)
	}
	return nil
}

func printVerdict(v model.Verdict) {
	status := "REJECTED"
	if v.Approved {
		status = "APPROVED"
	}
	fmt.Printf("%s  %s\n", status, v.Message)
	fmt.Printf("  verdict: %s\n", v.ID)
	fmt.Printf("  risk:    %s\n", v.RiskLevel)
	if v.Kind.IsCode() {
		fmt.Printf("  rows:    %d\n", v.RowsAffected)
	} else {
		fmt.Printf("  tone:    %.2f  professionalism: %.2f\n", v.ToneScore, v.ProfScore)
	}
	if v.Failure != "" {
		fmt.Printf("  failure: %s\n", v.Failure)
	}
	for _, issue := range v.Issues {
		fmt.Printf("  issue:   %s\n", issue)
	}
}

func readArtifact(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read artifact: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
