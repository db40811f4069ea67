package interfaces

import (
	"context"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// ResultStore accumulates per-call results while extraction workers run
// concurrently. Implementations must be safe for concurrent Put calls and
// must return results ordered by sequence, not completion.
type ResultStore interface {
	// Put records the result for the call at the given batch position.
	Put(ctx context.Context, result *model.CallResult) error

	// Get retrieves one call's result by call ID.
	Get(ctx context.Context, callID types.CallID) (*model.CallResult, error)

	// List returns all recorded results in batch order.
	List(ctx context.Context) ([]*model.CallResult, error)
}
