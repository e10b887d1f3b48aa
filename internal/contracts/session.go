package contracts

// SessionPhase is a named segment of the trading day
// ⭐ SSOT: 세션 구간 코드 (저널 status_code 컬럼과 동일 철자)
type SessionPhase string

const (
	PhaseClosed SessionPhase = "CLOSED"
	PhaseStudy  SessionPhase = "STUDY"
	PhaseScalp1 SessionPhase = "SCALP_1"
	PhaseNoNew1 SessionPhase = "NO_NEW_1"
	PhaseScalp2 SessionPhase = "SCALP_2"
	PhaseNoNew2 SessionPhase = "NO_NEW_2"
	PhaseOpen   SessionPhase = "OPEN"
)

// IsScalpWindow reports whether new scalping signals may be issued
func (p SessionPhase) IsScalpWindow() bool {
	return p == PhaseScalp1 || p == PhaseScalp2
}

// SessionStatus is the human-facing view of a phase at one instant
type SessionStatus struct {
	Phase      SessionPhase `json:"code"`
	Message    string       `json:"message"`
	Color      string       `json:"color"`
	Actionable bool         `json:"actionable"`
}
