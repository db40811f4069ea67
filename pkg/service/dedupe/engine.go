package dedupe

import (
	"context"
	"math"

	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// Default tuning for the engine
const (
	// DefaultThreshold is the similarity at which two insights merge.
	DefaultThreshold = 0.82
	// DefaultQuoteCap bounds how many quotes a cluster accumulates.
	DefaultQuoteCap = 3
)

// Engine merges near-duplicate insights. Clustering is greedy single-linkage
// in input order, applied independently per category; cross-category merges
// never occur.
type Engine struct {
	threshold float64
	quoteCap  int
	metric    Similarity
}

// Option configures an Engine
type Option func(*Engine)

// WithThreshold sets the merge threshold. Values outside (0, 1] keep the
// default.
func WithThreshold(v float64) Option {
	return func(e *Engine) {
		if v > 0 && v <= 1 {
			e.threshold = v
		}
	}
}

// WithQuoteCap sets how many quotes a cluster keeps
func WithQuoteCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.quoteCap = n
		}
	}
}

// WithSimilarity replaces the similarity metric
func WithSimilarity(metric Similarity) Option {
	return func(e *Engine) {
		if metric != nil {
			e.metric = metric
		}
	}
}

// New creates an Engine with the default metric and tuning
func New(opts ...Option) *Engine {
	e := &Engine{
		threshold: DefaultThreshold,
		quoteCap:  DefaultQuoteCap,
		metric:    TextSimilarity,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the engine's merge threshold
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// cluster tracks one group of near-duplicate insights during a pass.
// Provenance and quotes accumulate on the cluster, not the representative,
// so a representative swap never loses either.
type cluster struct {
	rep     model.Insight
	callIDs []types.CallID
	quotes  []string
}

// Deduplicate merges near-duplicate insights and returns one representative
// per cluster, in order of each cluster's first appearance. Re-running the
// result through the engine is a no-op; the engine verifies that guarantee
// after every pass and fails with ErrInconsistentClusters if it broke.
func (e *Engine) Deduplicate(ctx context.Context, insights []model.Insight, scope types.DedupeScope) ([]model.Insight, error) {
	if !scope.IsValid() {
		return nil, goerr.Wrap(ErrInvalidScope, "cannot deduplicate", goerr.V("scope", scope))
	}
	if len(insights) == 0 {
		return []model.Insight{}, nil
	}

	var clusters []*cluster
	for _, ins := range insights {
		var matched *cluster
		for _, cl := range clusters {
			if cl.rep.Category != ins.Category {
				continue
			}
			score, err := e.score(cl.rep.Summary, ins.Summary)
			if err != nil {
				return nil, err
			}
			if score >= e.threshold {
				matched = cl
				break
			}
		}

		if matched == nil {
			clusters = append(clusters, e.newCluster(ins))
			continue
		}
		e.absorb(matched, ins)
	}

	out := make([]model.Insight, 0, len(clusters))
	for _, cl := range clusters {
		out = append(out, emit(cl))
	}

	if err := e.verify(out); err != nil {
		return nil, err
	}

	logging.From(ctx).Debug("deduplicated insights",
		"scope", scope.String(),
		"input", len(insights),
		"output", len(out),
	)
	return out, nil
}

// score applies the metric and rejects out-of-range values at the boundary
func (e *Engine) score(a, b string) (float64, error) {
	v := e.metric(a, b)
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, goerr.Wrap(ErrInvalidScore, "metric misbehaved", goerr.V("score", v))
	}
	return v, nil
}

func (e *Engine) newCluster(ins model.Insight) *cluster {
	cl := &cluster{rep: ins.Clone()}
	for _, id := range provenanceOf(ins) {
		if !containsCallID(cl.callIDs, id) {
			cl.callIDs = append(cl.callIDs, id)
		}
	}
	for _, q := range quotesOf(ins) {
		if len(cl.quotes) >= e.quoteCap {
			break
		}
		if !containsString(cl.quotes, q) {
			cl.quotes = append(cl.quotes, q)
		}
	}
	return cl
}

// absorb merges an insight into a cluster: provenance unions, quotes grow up
// to the cap, and the representative is replaced only when the newcomer has
// strictly higher confidence.
func (e *Engine) absorb(cl *cluster, ins model.Insight) {
	for _, id := range provenanceOf(ins) {
		if !containsCallID(cl.callIDs, id) {
			cl.callIDs = append(cl.callIDs, id)
		}
	}
	for _, q := range quotesOf(ins) {
		if len(cl.quotes) >= e.quoteCap {
			break
		}
		if !containsString(cl.quotes, q) {
			cl.quotes = append(cl.quotes, q)
		}
	}
	if ins.Confidence.Rank() > cl.rep.Confidence.Rank() {
		cl.rep = ins.Clone()
	}
}

// emit materializes a cluster as its representative carrying the accumulated
// provenance and quotes
func emit(cl *cluster) model.Insight {
	out := cl.rep.Clone()
	out.SourceCallIDs = append([]types.CallID(nil), cl.callIDs...)
	out.Quotes = append([]string(nil), cl.quotes...)
	return out
}

// verify re-checks that no two same-category representatives still reach the
// threshold. A hit here is a broken invariant, not bad input.
func (e *Engine) verify(reps []model.Insight) error {
	for i := 0; i < len(reps); i++ {
		for j := i + 1; j < len(reps); j++ {
			if reps[i].Category != reps[j].Category {
				continue
			}
			score, err := e.score(reps[i].Summary, reps[j].Summary)
			if err != nil {
				return err
			}
			if score >= e.threshold {
				return goerr.Wrap(ErrInconsistentClusters, "dedupe left similar representatives",
					goerr.V("first", reps[i].Summary),
					goerr.V("second", reps[j].Summary),
					goerr.V("score", score),
					goerr.V("threshold", e.threshold),
				)
			}
		}
	}
	return nil
}

func provenanceOf(ins model.Insight) []types.CallID {
	if len(ins.SourceCallIDs) > 0 {
		return ins.SourceCallIDs
	}
	if ins.SourceCallID != "" {
		return []types.CallID{ins.SourceCallID}
	}
	return nil
}

func quotesOf(ins model.Insight) []string {
	if len(ins.Quotes) > 0 {
		return ins.Quotes
	}
	if ins.Quote != "" {
		return []string{ins.Quote}
	}
	return nil
}

func containsCallID(ids []types.CallID, id types.CallID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
