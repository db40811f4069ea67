package model

import "github.com/callsight-lab/callsight/pkg/domain/types"

// CallResult pairs one call's manifest line with its (possibly absent)
// insights. Seq is the call's position in batch arrival order; downstream
// passes sort on it so concurrent extraction cannot perturb output order.
type CallResult struct {
	Seq      int
	Report   CallReport
	Insights *CallInsights // nil for failed calls
	// Extracted counts the call's insights before any deduplication, so the
	// batch can report how many duplicates were removed overall.
	Extracted int
}

// BatchResult is the complete output of one pipeline run, handed read-only
// to sinks
type BatchResult struct {
	Manifest BatchManifest
	// Calls holds each non-failed call's insights after within-call
	// deduplication, in batch order.
	Calls []*CallInsights
	// Merged holds the cross-call deduplicated view per category: one
	// representative per cluster with merged provenance, in batch
	// concatenation order. Iterate with types.AllInsightCategories for
	// deterministic output.
	Merged map[types.InsightCategory][]Insight
	// Themes is the cross-call rollup computed over Calls.
	Themes *ThemeSummary
}

// MergedTotal returns the number of batch-level insights after the
// cross-call pass
func (r *BatchResult) MergedTotal() int {
	n := 0
	for _, list := range r.Merged {
		n += len(list)
	}
	return n
}
