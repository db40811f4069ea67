package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// CallID identifies a single call transcript within a batch
type CallID string

// Validate checks if the CallID is valid
func (c CallID) Validate() error {
	if c == "" {
		return goerr.New("call ID cannot be empty")
	}
	return nil
}

// String returns the string representation of CallID
func (c CallID) String() string {
	return string(c)
}

// BatchID is a UUID-based identifier for one pipeline run
type BatchID string

// NewBatchID generates a new UUID v4 BatchID
func NewBatchID() BatchID {
	return BatchID(uuid.New().String())
}

// String returns the string representation of BatchID
func (b BatchID) String() string {
	return string(b)
}
