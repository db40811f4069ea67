package types

// DedupeScope represents the range over which insights are deduplicated
type DedupeScope string

const (
	// ScopeWithinCall deduplicates insights extracted from a single call.
	ScopeWithinCall DedupeScope = "within_call"
	// ScopeCrossCall deduplicates insights across all calls in a batch.
	ScopeCrossCall DedupeScope = "cross_call"
)

// IsValid checks if the dedupe scope is valid
func (s DedupeScope) IsValid() bool {
	switch s {
	case ScopeWithinCall, ScopeCrossCall:
		return true
	default:
		return false
	}
}

// String returns the string representation of the dedupe scope
func (s DedupeScope) String() string {
	return string(s)
}
