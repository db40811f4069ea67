package slack

import (
	"context"

	"github.com/callsight-lab/callsight/pkg/domain/model"
)

// Service posts batch digest notifications to Slack
type Service interface {
	// PostBatchDigest posts a Block Kit summary of the batch to the
	// configured channel
	PostBatchDigest(ctx context.Context, result *model.BatchResult) error
}
