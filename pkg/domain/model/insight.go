package model

import (
	"crypto/md5" // #nosec G501 - id derivation only, not security
	"encoding/hex"
	"time"

	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// InsightID is a deterministic identifier derived from insight content and
// its source call, so re-extracting the same content yields the same ID
type InsightID string

// String returns the string representation of InsightID
func (i InsightID) String() string {
	return string(i)
}

// NewInsightID derives an InsightID from the insight summary and source call.
// Only the first 50 characters of the summary participate, matching the
// dedupe-friendly derivation the rest of the system expects.
func NewInsightID(summary string, callID types.CallID) InsightID {
	seed := summary
	if len(seed) > 50 {
		seed = seed[:50]
	}
	sum := md5.Sum([]byte(seed + ":" + callID.String())) // #nosec G401
	return InsightID(hex.EncodeToString(sum[:])[:12])
}

// SegmentRef points at the transcript segment an insight's quote was matched
// to. Optional; attached opportunistically when a quote matches well enough.
type SegmentRef struct {
	Index       int
	SpeakerName string
	Timestamp   time.Duration
}

// Insight is one extracted, categorized observation from a call
type Insight struct {
	ID           InsightID
	Category     types.InsightCategory
	Summary      string
	Quote        string // verbatim excerpt, empty when the model gave none
	Confidence   types.Confidence
	SourceCallID types.CallID
	SegmentRef   *SegmentRef

	// SourceCallIDs is the merged provenance maintained by deduplication.
	// It always contains SourceCallID and grows in first-contribution order.
	SourceCallIDs []types.CallID
	// Quotes collects quotes across a dedupe cluster, bounded by the engine.
	Quotes []string
}

// NewInsight creates an insight with derived ID and initial provenance
func NewInsight(category types.InsightCategory, summary, quote string, confidence types.Confidence, callID types.CallID) Insight {
	ins := Insight{
		ID:            NewInsightID(summary, callID),
		Category:      category,
		Summary:       summary,
		Quote:         quote,
		Confidence:    confidence,
		SourceCallID:  callID,
		SourceCallIDs: []types.CallID{callID},
	}
	if quote != "" {
		ins.Quotes = []string{quote}
	}
	return ins
}

// Clone returns a deep copy of the insight
func (i Insight) Clone() Insight {
	copied := i
	if i.SegmentRef != nil {
		ref := *i.SegmentRef
		copied.SegmentRef = &ref
	}
	if i.SourceCallIDs != nil {
		copied.SourceCallIDs = make([]types.CallID, len(i.SourceCallIDs))
		copy(copied.SourceCallIDs, i.SourceCallIDs)
	}
	if i.Quotes != nil {
		copied.Quotes = make([]string, len(i.Quotes))
		copy(copied.Quotes, i.Quotes)
	}
	return copied
}

// HasSourceCall reports whether the given call contributed to this insight
func (i Insight) HasSourceCall(callID types.CallID) bool {
	for _, id := range i.SourceCallIDs {
		if id == callID {
			return true
		}
	}
	return false
}

// CallInsights groups the insights extracted from one call by category
type CallInsights struct {
	CallID     types.CallID
	Meta       CallMeta
	Categories map[types.InsightCategory][]Insight
	// Degraded marks a call whose extraction exhausted repair attempts and
	// proceeded with empty categories.
	Degraded bool
}

// NewCallInsights creates an empty CallInsights for a call
func NewCallInsights(callID types.CallID, meta CallMeta) *CallInsights {
	return &CallInsights{
		CallID:     callID,
		Meta:       meta,
		Categories: make(map[types.InsightCategory][]Insight),
	}
}

// Add appends an insight to its category, preserving extraction order
func (c *CallInsights) Add(ins Insight) {
	c.Categories[ins.Category] = append(c.Categories[ins.Category], ins)
}

// Total returns the number of insights across all categories
func (c *CallInsights) Total() int {
	n := 0
	for _, list := range c.Categories {
		n += len(list)
	}
	return n
}

// All returns every insight in canonical category order, preserving
// extraction order within each category
func (c *CallInsights) All() []Insight {
	var out []Insight
	for _, cat := range types.AllInsightCategories() {
		out = append(out, c.Categories[cat]...)
	}
	return out
}

// Clone returns a deep copy of the call insights
func (c *CallInsights) Clone() *CallInsights {
	copied := &CallInsights{
		CallID:     c.CallID,
		Meta:       c.Meta,
		Categories: make(map[types.InsightCategory][]Insight, len(c.Categories)),
		Degraded:   c.Degraded,
	}
	for cat, list := range c.Categories {
		cloned := make([]Insight, len(list))
		for i, ins := range list {
			cloned[i] = ins.Clone()
		}
		copied.Categories[cat] = cloned
	}
	return copied
}
