package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archbench/archbench-engine/internal/engine"
	"github.com/archbench/archbench-engine/internal/validation"
	"github.com/archbench/archbench-engine/pkg/config"
	"github.com/archbench/archbench-engine/pkg/models"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario-file>",
	Short: "Simulate a scenario and print its metrics",
	Long: `Simulate a scenario and print latency, throughput, failure rate, cost,
score and hints.

Exit codes:
  0 - Scenario status is ok
  1 - Scenario status is degraded
  2 - Error (unreadable file, invalid scenario, unknown node type)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runSimulate(args[0], cmd.OutOrStdout())
		if exitCode != exitOK {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

// runSimulate simulates the scenario at path and returns the exit code
func runSimulate(path string, w io.Writer) int {
	eng, err := newEngine()
	if err != nil {
		printError(w, err)
		return exitError
	}
	return simulateFile(eng, path, w)
}

func simulateFile(eng *engine.Engine, path string, w io.Writer) int {
	scenario, err := config.LoadScenario(path)
	if err != nil {
		printError(w, err)
		return exitError
	}
	return simulateScenario(eng, scenario, w)
}

func simulateScenario(eng *engine.Engine, scenario *models.Scenario, w io.Writer) int {
	result, err := eng.Simulate(scenario)
	if err != nil {
		printError(w, err)
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatResultJSON(scenario.Name, result))
	} else {
		fmt.Fprintln(w, formatResultHuman(scenario.Name, result))
	}

	if result.Status == models.StatusDegraded {
		return exitDegraded
	}
	return exitOK
}

// formatResultHuman renders a result for terminals
func formatResultHuman(name string, r *models.SimulationResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Scenario: "+name) + "\n\n")

	status := statusOKStyle.Render("✓ " + r.Status)
	if r.Status == models.StatusDegraded {
		status = statusDegradedStyle.Render("⚠ " + r.Status)
	}

	rows := []struct{ label, value string }{
		{"Status", status},
		{"Score", fmt.Sprintf("%d/100", r.Score)},
		{"Latency p50", fmt.Sprintf("%d ms", r.LatencyMsP50)},
		{"Latency p95", fmt.Sprintf("%d ms", r.LatencyMsP95)},
		{"Throughput", fmt.Sprintf("%d rps", r.ThroughputRps)},
		{"Failure rate", fmt.Sprintf("%.2f%%", r.FailureRate*100)},
		{"Cost", fmt.Sprintf("$%.2f/hour", r.CostPerHour)},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label) + row.value + "\n")
	}

	if len(r.Hints) > 0 {
		b.WriteString("\nHints:\n")
		for _, h := range r.Hints {
			b.WriteString(hintStyle.Render("• "+h) + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatResultJSON renders a result as JSON
func formatResultJSON(name string, r *models.SimulationResult) string {
	output := struct {
		Scenario string                   `json:"scenario"`
		Result   *models.SimulationResult `json:"result"`
	}{
		Scenario: name,
		Result:   r,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}

// printError writes err in the selected output format. Validation failures
// print only their detail.
func printError(w io.Writer, err error) {
	message := err.Error()
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		message = verr.Detail
	}

	if IsJSONOutput() {
		data, _ := json.Marshal(map[string]string{"error": message})
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, errorStyle.Render("Error: ")+message)
}
