package usecase

import "github.com/m-mizutani/goerr/v2"

// ErrDuplicateCallID is returned when two transcripts in one batch claim the
// same call id, which would silently collapse into a single result.
var ErrDuplicateCallID = goerr.New("duplicate call id in batch")
