package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/archbench/archbench-engine/pkg/config"
	"github.com/archbench/archbench-engine/pkg/models"
)

var watchCmd = &cobra.Command{
	Use:   "watch <scenario-file>",
	Short: "Re-simulate a scenario every time the file changes",
	Long: `Simulate a scenario, then watch the file and simulate again on every
write until interrupted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWatch(ctx, args[0], cmd.OutOrStdout())
		if exitCode != exitOK {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch simulates path once and again after every change until ctx is
// done. Only setup failures produce a non-zero exit code.
func runWatch(ctx context.Context, path string, w io.Writer) int {
	eng, err := newEngine()
	if err != nil {
		printError(w, err)
		return exitError
	}

	simulateFile(eng, path, w)

	err = config.WatchScenario(ctx, path, func(s *models.Scenario, loadErr error) {
		fmt.Fprintln(w)
		if loadErr != nil {
			printError(w, loadErr)
			return
		}
		simulateScenario(eng, s, w)
	})
	if err != nil {
		printError(w, err)
		return exitError
	}
	return exitOK
}
