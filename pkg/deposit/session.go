package deposit

import (
	"fmt"
	"time"

	"github.com/amirasaad/usdtgate/pkg/money"
	"github.com/amirasaad/usdtgate/pkg/pricing"
)

// Urgency classifies the remaining deposit window.
type Urgency string

const (
	UrgencyOK       Urgency = "ok"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

const (
	warningThreshold  = 600
	criticalThreshold = 300
)

// Session is one simulated deposit: the buyer sends DepositAmount TRX to
// DepositAddress before ExpiresAt and receives Amount USDT.
type Session struct {
	ID             string               `json:"id"`
	Amount         money.Money          `json:"amount"`
	Email          string               `json:"email"`
	Address        string               `json:"wallet_address"`
	Fee            pricing.FeeBreakdown `json:"fee"`
	DepositAmount  money.Money          `json:"deposit_amount"`
	DepositAddress string               `json:"deposit_address"`
	Status         Status               `json:"status"`
	TransactionID  string               `json:"transaction_id,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	ExpiresAt      time.Time            `json:"expires_at"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
}

// IsExpired reports whether a pending session has outlived its window.
func (s *Session) IsExpired(now time.Time) bool {
	return s.Status == StatusPending && !now.Before(s.ExpiresAt)
}

// Remaining returns the whole seconds left in the window, never negative.
func (s *Session) Remaining(now time.Time) int64 {
	left := s.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int64(left / time.Second)
}

// Summary describes a completed session. It is empty otherwise.
func (s *Session) Summary() string {
	if s.Status != StatusCompleted {
		return ""
	}
	return fmt.Sprintf("%s Transaction ID: %s. Amount: %s. Status: Confirmed. Confirmation sent to: %s",
		MsgCompleted, s.TransactionID, s.Amount, s.Email)
}

// Snapshot is a session as seen at one instant.
type Snapshot struct {
	Session
	RemainingSeconds int64   `json:"remaining_seconds"`
	Countdown        string  `json:"countdown"`
	Urgency          Urgency `json:"urgency,omitempty"`
	Message          string  `json:"message,omitempty"`
	Summary          string  `json:"summary,omitempty"`
}

// Snapshot renders s at now. The countdown only runs while pending.
func (s *Session) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Session:   *s,
		Countdown: FormatCountdown(0),
		Message:   s.Status.Message(),
		Summary:   s.Summary(),
	}
	if s.Status == StatusPending {
		snap.RemainingSeconds = s.Remaining(now)
		snap.Countdown = FormatCountdown(snap.RemainingSeconds)
		snap.Urgency = UrgencyFor(snap.RemainingSeconds)
	}
	return snap
}

// FormatCountdown renders seconds as MM:SS.
func FormatCountdown(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// UrgencyFor classifies the remaining seconds.
func UrgencyFor(seconds int64) Urgency {
	switch {
	case seconds <= criticalThreshold:
		return UrgencyCritical
	case seconds <= warningThreshold:
		return UrgencyWarning
	default:
		return UrgencyOK
	}
}
