// greenlight-demo — field test harness for the verification gate.
// A canned batch of machine-generated artifacts (the kind an autonomous
// agent would produce) is routed through greenlight verify. The batch
// chooses; greenlight gates.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	red   = "\033[0;31m"
	green = "\033[0;32m"
	cyan  = "\033[0;36m"
	bold  = "\033[1m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

// artifact is one generated item submitted to the gate.
type artifact struct {
	Kind string
	Body string
	Why  string
}

var batch = []artifact{
	{Kind: "sql", Body: "UPDATE users SET active = 1 WHERE id = 42;", Why: "reactivate one account"},
	{Kind: "sql", Body: "DELETE FROM sessions WHERE expires_at < '2020-01-01';", Why: "purge stale sessions"},
	{Kind: "sql", Body: "DELETE FROM logs;", Why: "clean up aggressively"},
	{Kind: "sql", Body: "DROP TABLE users;", Why: "remove unused table"},
	{Kind: "sql", Body: "UPDATE orders SET status = 'shipped';", Why: "mark orders shipped"},
	{Kind: "text", Body: "Thank you for reaching out, please let me know if this resolves it.", Why: "customer reply"},
	{Kind: "text", Body: "That question is kind of stupid but whatever, lol.", Why: "customer reply"},
}

func main() {
	greenlight := os.Getenv("GREENLIGHT_BIN")
	if greenlight == "" {
		greenlight = "./greenlight"
	}
	verdictLog := os.Getenv("VERDICT_LOG")
	if verdictLog == "" {
		verdictLog = "/tmp/greenlight-demo.jsonl"
	}

	fmt.Printf("%s%s=== GREENLIGHT ===%s\n", bold, cyan, reset)
	show(greenlight, "version")
	fmt.Println()
	time.Sleep(500 * time.Millisecond)

	fmt.Printf("%s%s=== VERIFYING %d ARTIFACTS ===%s\n\n", bold, cyan, len(batch), reset)
	var approved, rejected int

	for i, a := range batch {
		fmt.Printf("%s[%d/%d]%s %s\n", bold, i+1, len(batch), reset, a.Why)
		fmt.Printf("  %s%s: %s%s\n", dim, a.Kind, a.Body, reset)
		time.Sleep(300 * time.Millisecond)

		cmd := exec.Command(greenlight, "verify", "--kind", a.Kind, "--verdict-log", verdictLog, "-")
		cmd.Stdin = strings.NewReader(a.Body)
		out, err := cmd.CombinedOutput()

		exitCode := 0
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				exitCode = exitErr.ExitCode()
			} else {
				exitCode = 1
			}
		}

		switch exitCode {
		case 77:
			fmt.Printf("  %sREJECTED%s %s\n", red, reset, firstLine(out))
			rejected++
		case 0:
			fmt.Printf("  %sAPPROVED%s %s\n", green, reset, firstLine(out))
			approved++
		default:
			fmt.Printf("  %sERROR%s exit=%d\n", red, reset, exitCode)
		}
		fmt.Println()
		time.Sleep(400 * time.Millisecond)
	}

	fmt.Printf("%s=== RESULTS ===%s\n\n", bold, reset)
	fmt.Printf("  Artifacts: %d  |  %sApproved: %d%s  |  %sRejected: %d%s\n\n",
		len(batch), green, approved, reset, red, rejected, reset)

	fmt.Printf("%sVerifying verdict chain integrity...%s\n", cyan, reset)
	verify := exec.Command(greenlight, "audit", "verify", verdictLog)
	verify.Stdout = os.Stdout
	verify.Stderr = os.Stderr
	_ = verify.Run()
	fmt.Println()

	fmt.Printf("%s%sDemo complete. The batch proposed; greenlight gated.%s\n", bold, green, reset)
}

func show(name string, args ...string) {
	fmt.Printf("%s$ %s %s%s\n", dim, name, strings.Join(args, " "), reset)
	out, _ := exec.Command(name, args...).CombinedOutput()
	fmt.Println(strings.TrimSpace(string(out)))
}

func firstLine(out []byte) string {
	line := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	return line
}
