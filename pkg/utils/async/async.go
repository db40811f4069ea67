package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// Protect runs a task and converts a panic into an error, so one bad task in
// a worker pool cannot take down the whole batch.
func Protect(ctx context.Context, name string, task func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("panic in task", "task", name, "panic", r)
			err = goerr.New("panic in task", goerr.V("task", name), goerr.V("panic", r))
		}
	}()

	return task(ctx)
}
