package model

type TxStatus string

const (
	TxStatusSuccess TxStatus = "SUCCESS"
	TxStatusFailed  TxStatus = "FAILED"
)

func (s TxStatus) String() string {
	return string(s)
}

// TxState is the lifecycle position of a single submitted operation.
type TxState string

const (
	TxStateBuilding  TxState = "BUILDING"
	TxStateSubmitted TxState = "SUBMITTED"
	TxStateConfirmed TxState = "CONFIRMED"
	TxStateReverted  TxState = "REVERTED"
	TxStateTimedOut  TxState = "TIMED_OUT"
)

func (s TxState) String() string {
	return string(s)
}

// Terminal reports whether no further transition can follow s.
// TimedOut is terminal for the tracker only; the transaction itself may still land.
func (s TxState) Terminal() bool {
	switch s {
	case TxStateConfirmed, TxStateReverted, TxStateTimedOut:
		return true
	default:
		return false
	}
}

type Origin string

const (
	OriginDerived  Origin = "derived"
	OriginInjected Origin = "injected"
)

func (o Origin) String() string {
	return string(o)
}
