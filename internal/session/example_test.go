package session_test

import (
	"fmt"
	"time"

	"github.com/wonny/scalpdesk/internal/session"
)

// Example shows how the clock maps wall-clock time to a phase
func Example() {
	clock := session.Default()
	ist := clock.Location()

	for _, hhmm := range [][2]int{{9, 0}, {9, 40}, {10, 30}, {12, 15}, {14, 0}, {15, 0}, {15, 45}} {
		t := time.Date(2025, 1, 2, hhmm[0], hhmm[1], 0, 0, ist)
		fmt.Printf("%s %s\n", t.Format("15:04"), clock.PhaseFor(t))
	}

	// Output:
	// 09:00 CLOSED
	// 09:40 STUDY
	// 10:30 SCALP_1
	// 12:15 NO_NEW_1
	// 14:00 SCALP_2
	// 15:00 NO_NEW_2
	// 15:45 CLOSED
}
