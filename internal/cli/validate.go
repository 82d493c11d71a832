package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/archbench/archbench-engine/internal/validation"
	"github.com/archbench/archbench-engine/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario-file>",
	Short: "Check a scenario for structural errors",
	Long: `Check a scenario for structural errors without simulating it.

Exit codes:
  0 - Scenario is valid
  2 - Scenario is invalid or unreadable`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runValidate(args[0], cmd.OutOrStdout())
		if exitCode != exitOK {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate validates the scenario at path and returns the exit code
func runValidate(path string, w io.Writer) int {
	scenario, err := config.LoadScenario(path)
	if err != nil {
		printError(w, err)
		return exitError
	}

	if err := validation.Validate(scenario); err != nil {
		printError(w, err)
		return exitError
	}

	if IsJSONOutput() {
		data, _ := json.Marshal(map[string]any{"valid": true, "scenario": scenario.Name})
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "%s %s is valid\n", statusOKStyle.Render("✓"), scenario.Name)
	}
	return exitOK
}
