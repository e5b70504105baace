package deposit

// Status is the lifecycle state of a deposit session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusChecking  Status = "checking"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusExpired   Status = "expired"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusExpired:
		return true
	}
	return false
}

// Message returns the status line shown to the buyer.
func (s Status) Message() string {
	switch s {
	case StatusChecking:
		return MsgChecking
	case StatusConfirmed:
		return MsgConfirmed
	case StatusCompleted:
		return MsgCompleted
	case StatusCanceled:
		return MsgCanceled
	case StatusExpired:
		return MsgTimeout
	}
	return ""
}

// Method is the payment method chosen on the form.
type Method string

const (
	MethodCrypto Method = "crypto"
	MethodFiat   Method = "fiat"
)
