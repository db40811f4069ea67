package usecase

import (
	"time"

	"github.com/callsight-lab/callsight/pkg/domain/interfaces"
	"github.com/callsight-lab/callsight/pkg/service/dedupe"
	"github.com/callsight-lab/callsight/pkg/service/extract"
	"github.com/callsight-lab/callsight/pkg/service/notion"
	"github.com/callsight-lab/callsight/pkg/service/rollup"
	"github.com/callsight-lab/callsight/pkg/service/slack"
)

const (
	// DefaultConcurrency bounds how many extraction requests run at once.
	DefaultConcurrency = 5
	// DefaultCallTimeout caps one call's extraction, retries included.
	DefaultCallTimeout = 3 * time.Minute
)

// UseCases wires the pipeline: provider, extractor, dedupe, rollup, and the
// output surfaces
type UseCases struct {
	provider  interfaces.TranscriptProvider
	extractor extract.Service
	dedupe    *dedupe.Engine
	rollup    *rollup.Aggregator
	sinks     []interfaces.InsightSink
	notion    notion.Service
	slack     slack.Service

	concurrency   int
	callTimeout   time.Duration
	dedupeEnabled bool
}

type Option func(*UseCases)

// WithDedupe replaces the deduplication engine
func WithDedupe(engine *dedupe.Engine) Option {
	return func(uc *UseCases) {
		if engine != nil {
			uc.dedupe = engine
		}
	}
}

// WithRollup replaces the theme aggregator
func WithRollup(agg *rollup.Aggregator) Option {
	return func(uc *UseCases) {
		if agg != nil {
			uc.rollup = agg
		}
	}
}

// WithSinks registers output sinks, in write order
func WithSinks(sinks ...interfaces.InsightSink) Option {
	return func(uc *UseCases) {
		uc.sinks = append(uc.sinks, sinks...)
	}
}

// WithNotion registers the Notion report publisher
func WithNotion(svc notion.Service) Option {
	return func(uc *UseCases) {
		uc.notion = svc
	}
}

// WithSlack registers the Slack digest poster
func WithSlack(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.slack = svc
	}
}

// WithConcurrency sets the extraction pool size. Values below 1 keep the
// default.
func WithConcurrency(n int) Option {
	return func(uc *UseCases) {
		if n >= 1 {
			uc.concurrency = n
		}
	}
}

// WithCallTimeout sets the per-call extraction ceiling
func WithCallTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		if d > 0 {
			uc.callTimeout = d
		}
	}
}

// WithoutDedupe disables both deduplication passes
func WithoutDedupe() Option {
	return func(uc *UseCases) {
		uc.dedupeEnabled = false
	}
}

// New creates the use case layer with default engines and tuning
func New(provider interfaces.TranscriptProvider, extractor extract.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		provider:      provider,
		extractor:     extractor,
		dedupe:        dedupe.New(),
		rollup:        rollup.New(),
		concurrency:   DefaultConcurrency,
		callTimeout:   DefaultCallTimeout,
		dedupeEnabled: true,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
