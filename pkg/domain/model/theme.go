package model

import "github.com/callsight-lab/callsight/pkg/domain/types"

// ThemeEntry is one recurring theme surfaced by the rollup
type ThemeEntry struct {
	Label string
	// Count is the number of distinct calls that contributed to the theme,
	// not the raw insight count.
	Count int
	// Quotes holds up to two verbatim example quotes from contributing
	// insights.
	Quotes []string
	// Categories lists which insight categories the theme spans, in
	// canonical order.
	Categories []types.InsightCategory
	// CallIDs lists contributing calls in batch order.
	CallIDs []types.CallID
}

// ThemeSummary is the ranked cross-call theme rollup for one batch. It is
// derived output, rebuilt per run, never persisted as authoritative state.
type ThemeSummary struct {
	Entries []ThemeEntry
}

// IsEmpty reports whether the rollup produced no themes
func (s *ThemeSummary) IsEmpty() bool {
	return s == nil || len(s.Entries) == 0
}
