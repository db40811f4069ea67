package dedupe

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the deduplication engine
var (
	// ErrInconsistentClusters means two emitted representatives still score
	// at or above the merge threshold. That breaks the engine's own
	// guarantee and is a defect, never recoverable input trouble.
	ErrInconsistentClusters = goerr.New("representatives remain similar after clustering")

	// ErrInvalidScore means a similarity metric returned a value outside
	// [0, 1]. Custom metrics are rejected at this boundary.
	ErrInvalidScore = goerr.New("similarity score out of range")

	// ErrInvalidScope means the caller passed an unknown dedupe scope.
	ErrInvalidScope = goerr.New("invalid dedupe scope")
)
