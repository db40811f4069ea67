package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/callsight-lab/callsight/pkg/domain/interfaces"
	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when no result exists for a call
var ErrNotFound = goerr.New("result not found")

// Store is an in-memory ResultStore. Extraction workers write into it
// concurrently; reads hand out deep copies so no caller ever shares mutable
// state with the store.
type Store struct {
	mu      sync.RWMutex
	results map[types.CallID]*model.CallResult
}

var _ interfaces.ResultStore = &Store{}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		results: make(map[types.CallID]*model.CallResult),
	}
}

// copyResult creates a deep copy of a call result
func copyResult(r *model.CallResult) *model.CallResult {
	copied := &model.CallResult{
		Seq:       r.Seq,
		Report:    r.Report,
		Extracted: r.Extracted,
	}
	if r.Insights != nil {
		copied.Insights = r.Insights.Clone()
	}
	return copied
}

// Put records the result for one call, replacing any earlier record for the
// same call ID
func (s *Store) Put(ctx context.Context, result *model.CallResult) error {
	if result == nil {
		return goerr.New("result is required")
	}
	if err := result.Report.CallID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid call result")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[result.Report.CallID] = copyResult(result)
	return nil
}

// Get retrieves one call's result by call ID
func (s *Store) Get(ctx context.Context, callID types.CallID) (*model.CallResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, exists := s.results[callID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "no result for call", goerr.V("call_id", callID))
	}
	return copyResult(result), nil
}

// List returns all recorded results ordered by batch sequence
func (s *Store) List(ctx context.Context) ([]*model.CallResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.CallResult, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, copyResult(r))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}
