package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "평가 사이클 1회 실행",
	Long: `오늘의 워치리스트를 평가하고 결과를 저널에 저장합니다.

같은 (date, time_bucket, ticker)는 다시 실행하면 교체됩니다.

Example:
  go run ./cmd/scalp evaluate
  go run ./cmd/scalp evaluate --at 2025-01-02T10:20`,
	RunE: runEvaluate,
}

var evaluateAt string

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evaluateAt, "at", "", "평가 시각 (IST, YYYY-MM-DDTHH:MM)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	now, err := parseAt(evaluateAt, a.clock.Location())
	if err != nil {
		return err
	}

	result, err := a.runner.Run(cmd.Context(), now)
	if err != nil {
		return fmt.Errorf("run cycle: %w", err)
	}

	cycle := result.Cycle
	PrintHeader("Evaluation Cycle",
		fmt.Sprintf("Time      : %s", cycle.Now.In(a.clock.Location()).Format("2006-01-02 15:04 MST")),
		fmt.Sprintf("Phase     : %s", cycle.Phase),
		fmt.Sprintf("Regime    : %s", cycle.Regime),
		fmt.Sprintf("Benchmark : %s", cycle.Benchmark),
		fmt.Sprintf("Strategy  : %s", a.version),
	)

	if cycle.Skipped {
		PrintWarning(fmt.Sprintf("Cycle skipped (phase %s, %d instruments)", cycle.Phase, cycle.Instruments))
		return nil
	}

	PrintPredictions(result.Batch)
	fmt.Println()
	if cycle.Degraded > 0 {
		PrintWarning(fmt.Sprintf("%d of %d instruments scored with missing data", cycle.Degraded, cycle.Instruments))
	}
	PrintSuccess(fmt.Sprintf("%d predictions journaled (%d new, %d replaced) in %s",
		len(result.Batch), result.Journal.Inserted, result.Journal.Replaced, cycle.Duration))

	return nil
}
