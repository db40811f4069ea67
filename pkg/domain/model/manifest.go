package model

import (
	"time"

	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// CallReport is the per-call line of a batch manifest
type CallReport struct {
	CallID       types.CallID
	RepName      string
	CompanyName  string
	Status       types.CallStatus
	InsightCount int
	// Error carries the failure reason for failed calls, empty otherwise.
	Error string
}

// BatchManifest summarizes one pipeline run: what was processed, what
// degraded, what failed, and the headline counters
type BatchManifest struct {
	BatchID    types.BatchID
	StartedAt  time.Time
	FinishedAt time.Time
	// Calls are reported in batch arrival order.
	Calls             []CallReport
	TotalInsights     int
	DuplicatesRemoved int
}

// CountByStatus returns how many calls finished with the given status
func (m *BatchManifest) CountByStatus(status types.CallStatus) int {
	n := 0
	for _, c := range m.Calls {
		if c.Status == status {
			n++
		}
	}
	return n
}

// FailedCallIDs returns the ids of calls that failed, in batch order
func (m *BatchManifest) FailedCallIDs() []types.CallID {
	var out []types.CallID
	for _, c := range m.Calls {
		if c.Status == types.CallStatusFailed {
			out = append(out, c.CallID)
		}
	}
	return out
}
