package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/archbench/archbench-engine/internal/defaults"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the node-type defaults table",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runDefaults(cmd.OutOrStdout())
		if exitCode != exitOK {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}

// runDefaults prints the effective defaults table and returns the exit code
func runDefaults(w io.Writer) int {
	table, err := loadTable()
	if err != nil {
		printError(w, err)
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatDefaultsJSON(table))
	} else {
		fmt.Fprintln(w, formatDefaultsHuman(table))
	}
	return exitOK
}

func formatDefaultsHuman(table *defaults.Table) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Node type defaults") + "\n\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLATENCY (ms)\tVARIANCE\tCAPACITY (rps)\tFAILURE RATE\tCOST ($/h)")
	for _, typ := range table.Types() {
		d, _ := table.Lookup(typ)
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%d\t%.3f\t%.2f\n",
			typ, d.LatencyMs, d.VarianceFactor, d.CapacityRps, d.FailureRate, d.CostPerHour)
	}
	tw.Flush()

	return strings.TrimRight(b.String(), "\n")
}

func formatDefaultsJSON(table *defaults.Table) string {
	type entry struct {
		Type           string  `json:"type"`
		LatencyMs      int     `json:"latencyMs"`
		VarianceFactor float64 `json:"varianceFactor"`
		CapacityRps    int     `json:"capacityRps"`
		FailureRate    float64 `json:"failureRate"`
		CostPerHour    float64 `json:"costPerHour"`
	}

	entries := make([]entry, 0, table.Len())
	for _, typ := range table.Types() {
		d, _ := table.Lookup(typ)
		entries = append(entries, entry{typ, d.LatencyMs, d.VarianceFactor, d.CapacityRps, d.FailureRate, d.CostPerHour})
	}

	data, _ := json.MarshalIndent(entries, "", "  ")
	return string(data)
}
