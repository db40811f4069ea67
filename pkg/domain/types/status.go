package types

// CallStatus represents the outcome of processing a single call in a batch
type CallStatus string

const (
	// CallStatusOK means extraction completed and the schema was satisfied.
	CallStatusOK CallStatus = "ok"
	// CallStatusDegraded means repair attempts were exhausted and the call
	// proceeded with empty categories.
	CallStatusDegraded CallStatus = "degraded"
	// CallStatusFailed means a transport-level failure stopped extraction for
	// this call. Failed calls are excluded from aggregation.
	CallStatusFailed CallStatus = "failed"
)

// AllCallStatuses returns all valid call statuses
func AllCallStatuses() []CallStatus {
	return []CallStatus{
		CallStatusOK,
		CallStatusDegraded,
		CallStatusFailed,
	}
}

// IsValid checks if the call status is valid
func (s CallStatus) IsValid() bool {
	switch s {
	case CallStatusOK, CallStatusDegraded, CallStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the call status
func (s CallStatus) String() string {
	return string(s)
}
