package types

import "strings"

// Confidence represents how strongly a transcript supports an insight
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// AllConfidences returns all valid confidence levels in ascending order
func AllConfidences() []Confidence {
	return []Confidence{
		ConfidenceLow,
		ConfidenceMedium,
		ConfidenceHigh,
	}
}

// IsValid checks if the confidence level is valid
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the confidence level
func (c Confidence) String() string {
	return string(c)
}

// DisplayName returns the confidence level formatted for reports
func (c Confidence) DisplayName() string {
	switch c {
	case ConfidenceLow:
		return "Low"
	case ConfidenceHigh:
		return "High"
	default:
		return "Medium"
	}
}

// Rank returns the ordinal rank of the confidence level. Higher means the
// model was more certain. Invalid values rank below low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	default:
		return 0
	}
}

// ClampConfidence maps a raw model-provided string to a valid confidence
// level. Values like "HIGH confidence" still resolve to the level they name.
// Anything unrecognized falls back to medium.
func ClampConfidence(s string) Confidence {
	v := strings.ToLower(strings.TrimSpace(s))
	if c := Confidence(v); c.IsValid() {
		return c
	}
	switch {
	case strings.Contains(v, "high"):
		return ConfidenceHigh
	case strings.Contains(v, "medium"):
		return ConfidenceMedium
	case strings.Contains(v, "low"):
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}
