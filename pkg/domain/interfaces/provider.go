package interfaces

import (
	"context"

	"github.com/callsight-lab/callsight/pkg/domain/model"
)

// TranscriptProvider supplies normalized transcripts for a batch run. The
// pipeline treats providers as opaque; it only requires well-formed segments
// with non-empty text.
type TranscriptProvider interface {
	// LoadBatch returns the batch's transcripts in a deterministic order.
	LoadBatch(ctx context.Context) ([]*model.Transcript, error)
}
