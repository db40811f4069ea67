package rollup

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/service/dedupe"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// Default tuning for the aggregator
const (
	// DefaultTopK is how many themes a rollup returns.
	DefaultTopK = 5
	// DefaultThreshold buckets summaries more coarsely than deduplication so
	// that different phrasings of one theme land in the same counting bucket.
	DefaultThreshold = 0.75

	quoteLimit = 2
)

// Aggregator rolls a deduplicated corpus up into ranked recurring themes.
// Bucketing reuses the dedupe similarity metric at a coarser threshold and
// runs across all categories of all calls at once.
type Aggregator struct {
	topK      int
	threshold float64
	metric    dedupe.Similarity
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithTopK sets how many themes the rollup keeps
func WithTopK(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.topK = n
		}
	}
}

// WithThreshold sets the bucketing threshold. Values outside (0, 1] keep the
// default.
func WithThreshold(v float64) Option {
	return func(a *Aggregator) {
		if v > 0 && v <= 1 {
			a.threshold = v
		}
	}
}

// WithSimilarity replaces the similarity metric
func WithSimilarity(metric dedupe.Similarity) Option {
	return func(a *Aggregator) {
		if metric != nil {
			a.metric = metric
		}
	}
}

// New creates an Aggregator with the default metric and tuning
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		topK:      DefaultTopK,
		threshold: DefaultThreshold,
		metric:    dedupe.TextSimilarity,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type quoteCandidate struct {
	text string
	rank int
}

// bucket accumulates one theme while the corpus streams through. Buckets are
// created in stream order, which is batch order, so bucket order doubles as
// the first-seen tie-break for ranking.
type bucket struct {
	label      string
	callIDs    []types.CallID
	categories map[types.InsightCategory]bool
	quotes     []quoteCandidate
}

// Rollup buckets every insight summary in the corpus, counts distinct
// contributing calls per bucket, and returns the top themes ranked by that
// count. Ties keep first-seen order. The result is deterministic for a fixed
// corpus and configuration; an empty corpus yields an empty summary.
func (a *Aggregator) Rollup(ctx context.Context, corpus []*model.CallInsights) (*model.ThemeSummary, error) {
	var buckets []*bucket
	calls := 0
	for _, ci := range corpus {
		if ci == nil {
			continue
		}
		calls++
		for _, ins := range ci.All() {
			if dedupe.Normalize(ins.Summary) == "" {
				continue
			}
			matched, err := a.match(buckets, ins.Summary)
			if err != nil {
				return nil, err
			}
			if matched == nil {
				matched = newBucket(ins.Summary)
				buckets = append(buckets, matched)
			}
			matched.add(ins, ci.CallID)
		}
	}

	ranked := make([]*bucket, len(buckets))
	copy(ranked, buckets)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].callIDs) > len(ranked[j].callIDs)
	})
	if len(ranked) > a.topK {
		ranked = ranked[:a.topK]
	}

	summary := &model.ThemeSummary{}
	for _, b := range ranked {
		summary.Entries = append(summary.Entries, b.entry())
	}

	logging.From(ctx).Debug("rolled up themes",
		"calls", calls,
		"buckets", len(buckets),
		"themes", len(summary.Entries),
	)
	return summary, nil
}

// match returns the first existing bucket the summary reaches, in bucket
// creation order
func (a *Aggregator) match(buckets []*bucket, summary string) (*bucket, error) {
	for _, b := range buckets {
		score := a.metric(b.label, summary)
		if math.IsNaN(score) || score < 0 || score > 1 {
			return nil, goerr.Wrap(dedupe.ErrInvalidScore, "metric misbehaved", goerr.V("score", score))
		}
		if score >= a.threshold {
			return b, nil
		}
	}
	return nil, nil
}

func newBucket(summary string) *bucket {
	return &bucket{
		label:      strings.TrimSpace(summary),
		categories: make(map[types.InsightCategory]bool),
	}
}

// add records an insight's contribution: provenance calls, category, and
// quote candidates kept per confidence rank so a later high-confidence quote
// still wins over an earlier weak one.
func (b *bucket) add(ins model.Insight, owner types.CallID) {
	ids := ins.SourceCallIDs
	if len(ids) == 0 && ins.SourceCallID != "" {
		ids = []types.CallID{ins.SourceCallID}
	}
	if len(ids) == 0 {
		ids = []types.CallID{owner}
	}
	for _, id := range ids {
		if !containsCallID(b.callIDs, id) {
			b.callIDs = append(b.callIDs, id)
		}
	}

	b.categories[ins.Category] = true

	rank := ins.Confidence.Rank()
	quotes := ins.Quotes
	if len(quotes) == 0 && ins.Quote != "" {
		quotes = []string{ins.Quote}
	}
	for _, q := range quotes {
		if q == "" || b.hasQuote(q) {
			continue
		}
		if b.rankCount(rank) >= quoteLimit {
			break
		}
		b.quotes = append(b.quotes, quoteCandidate{text: q, rank: rank})
	}
}

func (b *bucket) hasQuote(text string) bool {
	for _, c := range b.quotes {
		if c.text == text {
			return true
		}
	}
	return false
}

func (b *bucket) rankCount(rank int) int {
	n := 0
	for _, c := range b.quotes {
		if c.rank == rank {
			n++
		}
	}
	return n
}

func (b *bucket) entry() model.ThemeEntry {
	return model.ThemeEntry{
		Label:      b.label,
		Count:      len(b.callIDs),
		Quotes:     b.exampleQuotes(),
		Categories: b.categoryList(),
		CallIDs:    append([]types.CallID(nil), b.callIDs...),
	}
}

// exampleQuotes picks up to two quotes, best confidence first, arrival order
// within the same confidence
func (b *bucket) exampleQuotes() []string {
	var out []string
	for rank := types.ConfidenceHigh.Rank(); rank >= types.ConfidenceLow.Rank(); rank-- {
		for _, c := range b.quotes {
			if len(out) == quoteLimit {
				return out
			}
			if c.rank != rank {
				continue
			}
			out = append(out, c.text)
		}
	}
	return out
}

func (b *bucket) categoryList() []types.InsightCategory {
	var out []types.InsightCategory
	for _, cat := range types.AllInsightCategories() {
		if b.categories[cat] {
			out = append(out, cat)
		}
	}
	return out
}

func containsCallID(ids []types.CallID, id types.CallID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
