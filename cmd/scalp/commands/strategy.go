package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/scalpdesk/internal/strategyconfig"
)

// strategyCmd represents the strategy command
var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "전략 설정 관리",
	Long: `전략 YAML (임계값, 키워드, 세션 구간)을 검증하고 표시합니다.

Subcommands:
  validate [file]  - 스키마/범위 검증 + 경고
  show [file]      - 정규화된 YAML과 해시
  default          - 기본 전략 YAML 출력

Example:
  go run ./cmd/scalp strategy validate config/strategy/nse_scalp_v1.yaml
  go run ./cmd/scalp strategy default > my_strategy.yaml`,
}

var (
	strategyValidateCmd = &cobra.Command{
		Use:   "validate [file]",
		Short: "전략 파일 검증",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateStrategy,
	}

	strategyShowCmd = &cobra.Command{
		Use:   "show [file]",
		Short: "전략 스냅샷 표시",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showStrategy,
	}

	strategyDefaultCmd = &cobra.Command{
		Use:   "default",
		Short: "기본 전략 YAML 출력",
		Args:  cobra.NoArgs,
		RunE:  printDefaultStrategy,
	}
)

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyValidateCmd, strategyShowCmd, strategyDefaultCmd)
}

func strategyPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return strategyFile
}

func validateStrategy(cmd *cobra.Command, args []string) error {
	path := strategyPath(args)

	cfg, _, err := strategyconfig.LoadOrDefault(path)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	version, err := strategyconfig.StrategyVersion(cfg)
	if err != nil {
		return err
	}

	if path == "" {
		path = "(built-in defaults)"
	}
	PrintSuccess(fmt.Sprintf("%s is valid (strategy %s, version %s)", path, cfg.Meta.StrategyID, version))
	for _, w := range strategyconfig.Warn(cfg) {
		PrintWarning(fmt.Sprintf("%s: %s", w.Code, w.Message))
	}

	return nil
}

func showStrategy(cmd *cobra.Command, args []string) error {
	cfg, _, err := strategyconfig.LoadOrDefault(strategyPath(args))
	if err != nil {
		return err
	}

	data, err := strategyconfig.Marshal(cfg)
	if err != nil {
		return err
	}
	snapshot, err := strategyconfig.NewSnapshot(cfg, data)
	if err != nil {
		return err
	}

	PrintHeader("Strategy",
		fmt.Sprintf("ID        : %s", snapshot.StrategyID),
		fmt.Sprintf("Version   : %s", snapshot.StrategyVersion),
		fmt.Sprintf("Hash      : %s", snapshot.ConfigHash),
	)
	fmt.Print(string(data))

	return nil
}

func printDefaultStrategy(cmd *cobra.Command, args []string) error {
	data, err := strategyconfig.Marshal(strategyconfig.Default())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
