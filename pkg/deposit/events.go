package deposit

import "time"

// EventStatusChanged is the event type published after every status change.
const EventStatusChanged = "DepositStatusChanged"

// StatusChanged reports that a session moved to Status.
type StatusChanged struct {
	SessionID string    `json:"session_id"`
	Status    Status    `json:"status"`
	At        time.Time `json:"at"`
}

// Type implements eventbus.Event.
func (StatusChanged) Type() string { return EventStatusChanged }

// Key returns the session id, used to partition external streams.
func (e StatusChanged) Key() string { return e.SessionID }
