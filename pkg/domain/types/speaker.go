package types

import "strings"

// SpeakerRole represents which side of a sales call a speaker belongs to
type SpeakerRole string

const (
	SpeakerRep      SpeakerRole = "rep"
	SpeakerProspect SpeakerRole = "prospect"
	SpeakerUnknown  SpeakerRole = "unknown"
)

// IsValid checks if the speaker role is valid
func (r SpeakerRole) IsValid() bool {
	switch r {
	case SpeakerRep, SpeakerProspect, SpeakerUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the speaker role
func (r SpeakerRole) String() string {
	return string(r)
}

// NormalizeSpeakerRole maps loader-provided role labels to a SpeakerRole.
// Transcript files use a few spellings for each side; anything else is
// unknown rather than an error.
func NormalizeSpeakerRole(s string) SpeakerRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rep", "sales_rep", "salesperson", "seller":
		return SpeakerRep
	case "prospect", "customer", "client", "buyer":
		return SpeakerProspect
	default:
		return SpeakerUnknown
	}
}
