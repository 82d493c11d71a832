// Package cli implements the archbench command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/archbench/archbench-engine/internal/defaults"
	"github.com/archbench/archbench-engine/internal/engine"
	"github.com/archbench/archbench-engine/pkg/config"
	"github.com/archbench/archbench-engine/pkg/logger"
)

// Exit codes shared by the commands.
const (
	exitOK       = 0
	exitDegraded = 1
	exitError    = 2
)

var (
	defaultsPath string
	jsonOutput   bool
	logLevel     string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "archbench",
	Short: "Estimate architecture performance from a scenario file",
	Long: `archbench estimates latency, throughput, failure rate and cost of an
architecture scenario and scores it against optional workload targets.

Scenario files may be YAML or JSON (.json extension).

Environment Variables:
  ARCHBENCH_LOG_LEVEL  Log level when --log-level is not given (default: warn)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDefault(logger.NewText(getLogLevel(), os.Stderr))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&defaultsPath, "defaults", "", "YAML file with node-type default overrides")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func getLogLevel() string {
	if logLevel != "" {
		return logLevel
	}
	if env := os.Getenv("ARCHBENCH_LOG_LEVEL"); env != "" {
		return env
	}
	return "warn"
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadTable returns the built-in defaults, extended by --defaults if set.
func loadTable() (*defaults.Table, error) {
	table := defaults.Builtin()
	if defaultsPath == "" {
		return table, nil
	}
	overrides, err := config.LoadNodeDefaults(defaultsPath)
	if err != nil {
		return nil, err
	}
	return table.WithOverrides(overrides), nil
}

func newEngine() (*engine.Engine, error) {
	table, err := loadTable()
	if err != nil {
		return nil, err
	}
	return engine.New(table), nil
}
