package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/greenlightd/greenlight/internal/policy"
)

var (
	policyPath  string
	policyAgent string
)

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policyInitCmd)
	policyShowCmd.Flags().StringVar(&policyPath, "policy", "", "Path to policy YAML (default ~/.greenlight/policy.yaml)")
	policyShowCmd.Flags().StringVar(&policyAgent, "agent", "", "Show the effective policy for this agent")
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Risk policy operations",
	Long:  "Commands for inspecting and bootstrapping the risk policy file.",
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective policy",
	Long:  "Resolves the policy file and prints the effective configuration,\nincluding per-agent overrides merged over the defaults.",
	RunE:  runPolicyShow,
}

var policyInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default policy.yaml",
	Long:  "Creates ~/.greenlight/policy.yaml with default thresholds.\nEdit this file to customize per-agent risk policies.",
	RunE:  runPolicyInit,
}

func runPolicyShow(cmd *cobra.Command, args []string) error {
	cfg, hash, err := policy.LoadConfigWithHash(policyPath)
	if err != nil {
		return err
	}

	var out any = cfg
	if policyAgent != "" {
		out = map[string]any{
			"agent":  policyAgent,
			"policy": cfg.PolicyFor(policyAgent),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	fmt.Printf("policy hash: %s\n", hash)
	return nil
}

func runPolicyInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}

	dir := filepath.Join(home, ".greenlight")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	path := filepath.Join(dir, "policy.yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("policy.yaml already exists at %s", path)
	}

	content := policy.DefaultConfigYAML()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write policy.yaml: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
