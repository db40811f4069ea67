package interfaces

import (
	"context"

	"github.com/callsight-lab/callsight/pkg/domain/model"
)

// InsightSink renders a finished batch somewhere: files, a document service,
// a chat channel. Sinks consume the result read-only and never mutate it.
type InsightSink interface {
	// Name identifies the sink in logs and the manifest.
	Name() string

	// Write renders the batch result. A sink failure is reported to the
	// caller but does not change any call's status.
	Write(ctx context.Context, result *model.BatchResult) error
}
