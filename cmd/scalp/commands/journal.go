package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/journal"
)

// journalCmd represents the journal command
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "예측 저널 조회",
	Long: `저장된 예측을 조회합니다.

Example:
  go run ./cmd/scalp journal --from 2025-01-02 --to 2025-01-02
  go run ./cmd/scalp journal --ticker RELIANCE,TCS --action LONG_BIAS
  go run ./cmd/scalp journal --latest`,
	RunE: runJournal,
}

var (
	journalFrom    string
	journalTo      string
	journalTickers []string
	journalActions []string
	journalLatest  bool
)

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVar(&journalFrom, "from", "", "시작일 (YYYY-MM-DD)")
	journalCmd.Flags().StringVar(&journalTo, "to", "", "종료일 (YYYY-MM-DD)")
	journalCmd.Flags().StringSliceVar(&journalTickers, "ticker", nil, "종목 (comma separated)")
	journalCmd.Flags().StringSliceVar(&journalActions, "action", nil, "LONG_BIAS, SHORT_BIAS, NO_TRADE")
	journalCmd.Flags().BoolVar(&journalLatest, "latest", false, "오늘 종목별 최신 예측만")
}

func runJournal(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	filter, err := buildFilter(journalFrom, journalTo, journalTickers, journalActions)
	if err != nil {
		return err
	}
	if journalLatest && filter.From.IsZero() && filter.To.IsZero() {
		today, _ := time.Parse("2006-01-02", time.Now().In(a.clock.Location()).Format("2006-01-02"))
		filter.From, filter.To = today, today
	}

	rows, err := a.journal.Query(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("query journal: %w", err)
	}
	if journalLatest {
		rows = journal.LatestPerTicker(rows)
	}

	PrintHeader("Prediction Journal", fmt.Sprintf("Backend   : %s", a.cfg.Journal.Backend))
	if len(rows) == 0 {
		PrintWarning("No predictions found")
		return nil
	}
	PrintPredictions(rows)
	fmt.Printf("\n%d rows\n", len(rows))

	return nil
}

// buildFilter converts CLI flags into a journal filter
func buildFilter(from, to string, tickers, actions []string) (journal.Filter, error) {
	var f journal.Filter
	var err error

	if from != "" {
		if f.From, err = time.Parse("2006-01-02", from); err != nil {
			return f, fmt.Errorf("invalid --from %q", from)
		}
	}
	if to != "" {
		if f.To, err = time.Parse("2006-01-02", to); err != nil {
			return f, fmt.Errorf("invalid --to %q", to)
		}
	}

	for _, t := range tickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			f.Tickers = append(f.Tickers, t)
		}
	}

	for _, s := range actions {
		action := contracts.Action(strings.ToUpper(strings.TrimSpace(s)))
		switch action {
		case contracts.ActionLong, contracts.ActionShort, contracts.ActionNoTrade:
			f.Actions = append(f.Actions, action)
		default:
			return f, fmt.Errorf("invalid --action %q", s)
		}
	}

	return f, nil
}
