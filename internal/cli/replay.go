package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenlightd/greenlight/internal/replay"
)

var (
	replayLog    string
	replayPolicy string
	replayAgent  string
	replayFormat string
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replayLog, "log", "", "Path to verdict log (required)")
	replayCmd.Flags().StringVar(&replayPolicy, "policy", "", "Path to new policy YAML (required)")
	replayCmd.Flags().StringVar(&replayAgent, "agent", "", "Agent ID override for all entries (optional)")
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", "text", "Output format (text|json)")
	replayCmd.MarkFlagRequired("log")
	replayCmd.MarkFlagRequired("policy")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-gate a verdict log against a new policy and show decision diffs",
	Long: "Reads a recorded verdict log, re-gates each artifact under an alternate\n" +
		"policy file, and shows which verdicts changed.\n\n" +
		"Replay is static: nothing is re-executed. Use this to preview policy\n" +
		"changes before deploying them.",
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	result, err := replay.Replay(replayLog, replayPolicy, replayAgent)
	if err != nil {
		return err
	}

	switch replayFormat {
	case "json":
		out, err := replay.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(replay.FormatText(result))
	}

	return nil
}
