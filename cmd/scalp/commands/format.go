package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a formatted command header
func PrintHeader(title string, lines ...string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	if len(lines) > 0 {
		PrintSeparator()
		for _, l := range lines {
			fmt.Printf("  %s\n", l)
		}
	}
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	for i := 0; i < totalWidth; i++ {
		fmt.Print("─")
	}
	fmt.Println()
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

var predictionColumns = []string{"DATE", "BUCKET", "TICKER", "ACTION", "SCORE", "LABEL", "REGIME", "TREND", "VOLUME", "NEWS", "PRICE"}
var predictionWidths = []int{10, 6, 12, 10, 5, 20, 15, 8, 7, 10, 10}

// PrintPredictions prints journal rows as a table
func PrintPredictions(rows []contracts.Prediction) {
	PrintTableHeader(predictionColumns, predictionWidths)
	for _, p := range rows {
		PrintTableRow(predictionRow(p), predictionWidths)
	}
}

func predictionRow(p contracts.Prediction) []string {
	price := "-"
	if p.PriceAtPrediction != nil {
		price = strconv.FormatFloat(*p.PriceAtPrediction, 'f', 2, 64)
	}
	return []string{
		p.Date,
		p.TimeBucket,
		p.Ticker,
		string(p.PredictionAction),
		strconv.FormatFloat(p.ConfidenceScore, 'f', 2, 64),
		string(p.ConfidenceLevelLabel),
		string(p.MarketRegime),
		string(p.StockShortTrend),
		string(p.VolumeSignal),
		string(p.NewsRiskFlag),
		price,
	}
}

// parseAt parses --at values as IST wall-clock time; empty means now
func parseAt(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --at %q (want YYYY-MM-DDTHH:MM)", value)
}
