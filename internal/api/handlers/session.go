package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/internal/regime"
	"github.com/wonny/scalpdesk/internal/session"
)

// SessionHandler serves the trading session clock
// ⭐ SSOT: 세션 상태 API는 이 핸들러에서만
type SessionHandler struct {
	clock *session.Clock
	now   func() time.Time
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(clock *session.Clock) *SessionHandler {
	return &SessionHandler{clock: clock, now: time.Now}
}

// SessionResponse is the dashboard view of the session
type SessionResponse struct {
	Now         string                  `json:"now"`
	Status      contracts.SessionStatus `json:"status"`
	Description string                  `json:"description"`
	Windows     []SessionWindow         `json:"windows"`
}

// SessionWindow is one phase of the trading day
type SessionWindow struct {
	Phase contracts.SessionPhase `json:"phase"`
	Start string                 `json:"start"`
	End   string                 `json:"end"`
}

// GetSession returns the current phase with its message
// GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.clock.Location())
	status := h.clock.Status(now)
	s := h.clock.Schedule()

	respondJSON(w, http.StatusOK, SessionResponse{
		Now:         now.Format(time.RFC3339),
		Status:      status,
		Description: session.Describe(status.Phase),
		Windows: []SessionWindow{
			{contracts.PhaseStudy, s.Open.String(), s.StudyEnd.String()},
			{contracts.PhaseScalp1, s.Scalp1Start.String(), s.Scalp1End.String()},
			{contracts.PhaseNoNew1, s.Scalp1End.String(), s.NoNew1End.String()},
			{contracts.PhaseScalp2, s.Scalp2Start.String(), s.Scalp2End.String()},
			{contracts.PhaseNoNew2, s.Scalp2End.String(), s.Close.String()},
		},
	})
}

// RegimeInfo describes one market regime
type RegimeInfo struct {
	Code        contracts.MarketRegime `json:"code"`
	Description string                 `json:"description"`
}

// GetRegimes lists every regime with its explanation
// GET /api/regimes
func (h *SessionHandler) GetRegimes(w http.ResponseWriter, r *http.Request) {
	all := contracts.AllRegimes()
	out := make([]RegimeInfo, 0, len(all))
	for _, code := range all {
		out = append(out, RegimeInfo{Code: code, Description: regime.Describe(code)})
	}
	respondJSON(w, http.StatusOK, out)
}
