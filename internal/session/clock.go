package session

import (
	"fmt"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
)

// Phase colours used by the dashboard feed
const (
	colorBlocked = "#b22222"
	colorScalp   = "#228b22"
	colorManage  = "#ff8c00"
	colorOpen    = "#1e90ff"
)

// Clock classifies timestamps into session phases. Pure and total.
// ⭐ SSOT: 세션 구간 판정은 여기서만
type Clock struct {
	schedule Schedule
}

// New creates a clock for the given schedule
func New(schedule Schedule) *Clock {
	if schedule.Location == nil {
		schedule.Location = IST()
	}
	return &Clock{schedule: schedule}
}

// Default returns a clock on the NSE schedule
func Default() *Clock {
	return New(DefaultSchedule())
}

// Location returns the exchange timezone
func (c *Clock) Location() *time.Location {
	return c.schedule.Location
}

// Schedule returns the configured boundaries
func (c *Clock) Schedule() Schedule {
	return c.schedule
}

// PhaseFor returns the session phase of t in exchange time
func (c *Clock) PhaseFor(t time.Time) contracts.SessionPhase {
	s := c.schedule
	tod := Of(t.In(s.Location))

	switch {
	case tod < s.Open || tod > s.Close:
		return contracts.PhaseClosed
	case tod < s.StudyEnd:
		return contracts.PhaseStudy
	case tod >= s.Scalp1Start && tod < s.Scalp1End:
		return contracts.PhaseScalp1
	case tod >= s.Scalp1End && tod < s.NoNew1End:
		return contracts.PhaseNoNew1
	case tod >= s.Scalp2Start && tod < s.Scalp2End:
		return contracts.PhaseScalp2
	case tod >= s.Scalp2End && tod <= s.Close:
		return contracts.PhaseNoNew2
	}
	// 경계 사이 공백 (기본 스케줄에서는 도달 불가)
	return contracts.PhaseOpen
}

// Status returns the phase with its dashboard message and colour
func (c *Clock) Status(t time.Time) contracts.SessionStatus {
	local := t.In(c.schedule.Location)
	phase := c.PhaseFor(local)
	s := c.schedule

	date := local.Format("02-Jan-2006")
	clock := local.Format("03:04 PM")

	var msg, color string
	switch phase {
	case contracts.PhaseClosed:
		msg = fmt.Sprintf("Market is currently closed on %s. Current time is %s (Indian Standard Time).", date, clock)
		color = colorBlocked
	case contracts.PhaseStudy:
		msg = fmt.Sprintf("Study-only period for today (%s). From %s to %s you should only observe the market and avoid opening new scalping trades.",
			date, human(s.Open), human(s.StudyEnd))
		color = colorBlocked
	case contracts.PhaseScalp1:
		msg = fmt.Sprintf("You are in Prime Scalping Window 1 on %s. Current time is %s. This window runs from %s to %s. "+
			"Short-term scalping opportunities are allowed during this period when conditions are favourable.",
			date, clock, human(s.Scalp1Start), human(s.Scalp1End))
		color = colorScalp
	case contracts.PhaseNoNew1:
		msg = fmt.Sprintf("You are in the midday period on %s (approximately %s to %s). "+
			"This part of the session often has lower quality moves. "+
			"It is generally better to avoid starting fresh scalping trades and instead manage or monitor existing positions.",
			date, human(s.Scalp1End), human(s.NoNew1End))
		color = colorManage
	case contracts.PhaseScalp2:
		msg = fmt.Sprintf("You are in Prime Scalping Window 2 on %s. Current time is %s. This window runs from %s to %s. "+
			"This is another good period for short-term scalping if the market and stock conditions support it.",
			date, clock, human(s.Scalp2Start), human(s.Scalp2End))
		color = colorScalp
	case contracts.PhaseNoNew2:
		msg = fmt.Sprintf("You are in the final wind-down window for today (%s), between approximately %s and %s. "+
			"This period is best used for managing and exiting existing trades, not for opening new scalping positions.",
			date, human(s.Scalp2End), human(s.Close))
		color = colorManage
	default:
		msg = fmt.Sprintf("Market is open on %s. Current time is %s.", date, clock)
		color = colorOpen
	}

	return contracts.SessionStatus{
		Phase:      phase,
		Message:    msg,
		Color:      color,
		Actionable: phase.IsScalpWindow(),
	}
}

// Describe returns the short per-phase description used by the API
func Describe(phase contracts.SessionPhase) string {
	switch phase {
	case contracts.PhaseStudy:
		return "Study-only period. Observe the market between 9:15 AM and 10:00 AM without initiating new scalping trades."
	case contracts.PhaseScalp1:
		return "Prime Scalping Window 1. From 10:00 AM to 11:30 AM, conditions are generally more suitable for short-term scalping."
	case contracts.PhaseNoNew1:
		return "Midday period. From around 11:30 AM to 1:30 PM, market quality often deteriorates, and starting new scalps is discouraged."
	case contracts.PhaseScalp2:
		return "Prime Scalping Window 2. From 1:30 PM to 2:45 PM, there is another good opportunity window for scalping if conditions align."
	case contracts.PhaseNoNew2:
		return "Final wind-down period. From around 2:45 PM to 3:30 PM, focus on managing and closing existing trades rather than opening new scalps."
	case contracts.PhaseClosed:
		return "Market is closed. No intraday trading or scalping is possible."
	}
	return "General open-market state."
}

// human formats 13:30 as "1:30 PM"
func human(d TimeOfDay) string {
	t := time.Date(2000, 1, 1, int(d)/3600, (int(d)%3600)/60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}
