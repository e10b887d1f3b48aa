package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/scalpdesk/internal/session"
	"github.com/wonny/scalpdesk/internal/strategyconfig"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "현재 세션 구간 표시",
	Long: `NSE 세션 구간(STUDY, SCALP_1, NO_NEW_1, SCALP_2, NO_NEW_2, CLOSED)을 표시합니다.
외부 연결 없이 전략 파일만 읽습니다.

Example:
  go run ./cmd/scalp session
  go run ./cmd/scalp session --at 2025-01-02T13:45`,
	RunE: runSession,
}

var sessionAt string

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.Flags().StringVar(&sessionAt, "at", "", "시각 (IST, YYYY-MM-DDTHH:MM)")
}

func runSession(cmd *cobra.Command, args []string) error {
	strategy, _, err := strategyconfig.LoadOrDefault(strategyFile)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}
	schedule, err := strategy.SessionSchedule()
	if err != nil {
		return fmt.Errorf("session schedule: %w", err)
	}
	clock := session.New(schedule)

	now, err := parseAt(sessionAt, clock.Location())
	if err != nil {
		return err
	}
	status := clock.Status(now)

	PrintHeader("Trading Session", fmt.Sprintf("Time      : %s", now.In(clock.Location()).Format("2006-01-02 15:04 MST")))
	PrintKeyValue("Phase", string(status.Phase), 10)
	PrintKeyValue("Actionable", fmt.Sprintf("%v", status.Actionable), 10)
	PrintKeyValue("Color", status.Color, 10)
	fmt.Println()
	fmt.Println(status.Message)
	fmt.Println()
	fmt.Println(session.Describe(status.Phase))

	return nil
}
