package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/callsight-lab/callsight/pkg/domain/interfaces"
	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/repository/memory"
	"github.com/callsight-lab/callsight/pkg/utils/async"
	"github.com/callsight-lab/callsight/pkg/utils/errutil"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// AnalyzeOption holds options for one batch run
type AnalyzeOption struct {
	// DryRun skips every output surface; the result is still returned.
	DryRun bool
}

// AnalyzeResult is the overall outcome of one batch run
type AnalyzeResult struct {
	Batch *model.BatchResult
	// SinksWritten and SinkErrors count the output surfaces, which are
	// best-effort and never change a call's status.
	SinksWritten int
	SinkErrors   int
	// ReportURL is the published Notion page when a publisher is configured.
	ReportURL string
}

// Analyze runs the pipeline over one batch: load transcripts, extract
// concurrently with per-call isolation, deduplicate within and across calls,
// roll up themes, and deliver the result to the configured surfaces.
func (uc *UseCases) Analyze(ctx context.Context, opts AnalyzeOption) (*AnalyzeResult, error) {
	if uc.provider == nil || uc.extractor == nil {
		return nil, goerr.New("transcript provider and extractor are required")
	}

	started := time.Now().UTC()
	batchID := types.NewBatchID()
	logger := logging.From(ctx)

	transcripts, err := uc.provider.LoadBatch(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load transcript batch")
	}
	if err := checkCallIDs(transcripts); err != nil {
		return nil, err
	}

	logger.Info("starting batch analysis",
		"batchID", batchID,
		"calls", len(transcripts),
		"concurrency", uc.concurrency,
	)

	store := memory.New()
	if err := uc.extractAll(ctx, store, transcripts); err != nil {
		return nil, goerr.Wrap(err, "batch extraction aborted")
	}

	results, err := store.List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to collect call results")
	}

	batch, err := uc.assemble(ctx, batchID, started, results)
	if err != nil {
		return nil, err
	}

	res := &AnalyzeResult{Batch: batch}
	if !opts.DryRun {
		uc.deliver(ctx, batch, res)
	}

	logger.Info("batch analysis completed",
		"batchID", batchID,
		"ok", batch.Manifest.CountByStatus(types.CallStatusOK),
		"degraded", batch.Manifest.CountByStatus(types.CallStatusDegraded),
		"failed", batch.Manifest.CountByStatus(types.CallStatusFailed),
		"insights", batch.Manifest.TotalInsights,
		"duplicatesRemoved", batch.Manifest.DuplicatesRemoved,
	)

	return res, nil
}

// checkCallIDs rejects a batch where two transcripts claim the same id,
// which would otherwise silently collapse into one result
func checkCallIDs(transcripts []*model.Transcript) error {
	seen := make(map[types.CallID]struct{}, len(transcripts))
	for _, tr := range transcripts {
		if _, dup := seen[tr.ID]; dup {
			return goerr.Wrap(ErrDuplicateCallID, "cannot analyze batch", goerr.V("callID", tr.ID))
		}
		seen[tr.ID] = struct{}{}
	}
	return nil
}

// extractAll runs the bounded extraction pool. Call-level failures are
// recorded in the store, not returned; only store failures and batch
// cancellation abort the pool.
func (uc *UseCases) extractAll(ctx context.Context, store interfaces.ResultStore, transcripts []*model.Transcript) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for seq, transcript := range transcripts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return store.Put(gctx, uc.analyzeCall(gctx, seq, transcript))
		})
	}

	return g.Wait()
}

// analyzeCall extracts one call and applies the within-call dedupe pass.
// Every failure mode ends up in the report; the batch never aborts for one
// call. Extraction runs on a context detached from batch cancellation so an
// in-flight request completes or times out instead of being torn down.
func (uc *UseCases) analyzeCall(ctx context.Context, seq int, transcript *model.Transcript) *model.CallResult {
	report := model.CallReport{
		CallID:      transcript.ID,
		RepName:     transcript.Meta.RepName,
		CompanyName: transcript.Meta.CompanyName,
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.callTimeout)
	defer cancel()

	var insights *model.CallInsights
	err := async.Protect(callCtx, "extract:"+transcript.ID.String(), func(ctx context.Context) error {
		var extractErr error
		insights, extractErr = uc.extractor.Extract(ctx, transcript)
		return extractErr
	})
	if err != nil {
		errutil.Handle(ctx, err, "call extraction failed")
		report.Status = types.CallStatusFailed
		report.Error = err.Error()
		return &model.CallResult{Seq: seq, Report: report}
	}

	extracted := insights.Total()

	if uc.dedupeEnabled {
		deduped, dedupeErr := uc.dedupeCall(callCtx, insights)
		if dedupeErr != nil {
			errutil.Handle(ctx, dedupeErr, "within-call deduplication failed")
			report.Status = types.CallStatusFailed
			report.Error = dedupeErr.Error()
			return &model.CallResult{Seq: seq, Report: report}
		}
		insights = deduped
	}

	report.Status = types.CallStatusOK
	if insights.Degraded {
		report.Status = types.CallStatusDegraded
	}
	report.InsightCount = insights.Total()

	logging.From(ctx).Debug("call analyzed",
		"callID", transcript.ID,
		"status", report.Status,
		"extracted", extracted,
		"kept", report.InsightCount,
	)

	return &model.CallResult{
		Seq:       seq,
		Report:    report,
		Insights:  insights,
		Extracted: extracted,
	}
}

// dedupeCall collapses near-duplicates inside one call, category by category
func (uc *UseCases) dedupeCall(ctx context.Context, insights *model.CallInsights) (*model.CallInsights, error) {
	deduped, err := uc.dedupe.Deduplicate(ctx, insights.All(), types.ScopeWithinCall)
	if err != nil {
		return nil, err
	}

	out := model.NewCallInsights(insights.CallID, insights.Meta)
	out.Degraded = insights.Degraded
	for _, ins := range deduped {
		out.Add(ins)
	}
	return out, nil
}

// assemble builds the batch result from the per-call results: manifest,
// cross-call merged view, and theme rollup over non-failed calls
func (uc *UseCases) assemble(ctx context.Context, batchID types.BatchID, started time.Time, results []*model.CallResult) (*model.BatchResult, error) {
	manifest := model.BatchManifest{
		BatchID:   batchID,
		StartedAt: started,
	}

	calls := make([]*model.CallInsights, 0, len(results))
	extracted := 0
	for _, r := range results {
		manifest.Calls = append(manifest.Calls, r.Report)
		if r.Insights != nil {
			calls = append(calls, r.Insights)
			extracted += r.Extracted
		}
	}

	merged, mergedTotal, err := uc.mergeAcrossCalls(ctx, calls)
	if err != nil {
		return nil, err
	}

	themes, err := uc.rollup.Rollup(ctx, calls)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to roll up themes")
	}

	manifest.TotalInsights = mergedTotal
	manifest.DuplicatesRemoved = extracted - mergedTotal
	manifest.FinishedAt = time.Now().UTC()

	return &model.BatchResult{
		Manifest: manifest,
		Calls:    calls,
		Merged:   merged,
		Themes:   themes,
	}, nil
}

// mergeAcrossCalls runs the cross-call dedupe pass per category over the
// batch-ordered concatenation of all surviving calls
func (uc *UseCases) mergeAcrossCalls(ctx context.Context, calls []*model.CallInsights) (map[types.InsightCategory][]model.Insight, int, error) {
	merged := make(map[types.InsightCategory][]model.Insight)

	total := 0
	for _, cat := range types.AllInsightCategories() {
		var pool []model.Insight
		for _, ci := range calls {
			pool = append(pool, ci.Categories[cat]...)
		}
		if len(pool) == 0 {
			continue
		}

		list := pool
		if uc.dedupeEnabled {
			var err error
			list, err = uc.dedupe.Deduplicate(ctx, pool, types.ScopeCrossCall)
			if err != nil {
				return nil, 0, goerr.Wrap(err, "cross-call deduplication failed", goerr.V("category", cat))
			}
		}

		merged[cat] = list
		total += len(list)
	}

	return merged, total, nil
}

// deliver writes the batch to every configured surface. Surfaces are
// independent; one failure is reported and the rest still run.
func (uc *UseCases) deliver(ctx context.Context, batch *model.BatchResult, res *AnalyzeResult) {
	for _, sink := range uc.sinks {
		if err := sink.Write(ctx, batch); err != nil {
			errutil.Handle(ctx, err, "failed to write "+sink.Name()+" sink")
			res.SinkErrors++
			continue
		}
		res.SinksWritten++
	}

	if uc.notion != nil {
		url, err := uc.notion.PublishBatchReport(ctx, batch)
		if err != nil {
			errutil.Handle(ctx, err, "failed to publish batch report")
			res.SinkErrors++
		} else {
			res.ReportURL = url
			res.SinksWritten++
		}
	}

	if uc.slack != nil {
		if err := uc.slack.PostBatchDigest(ctx, batch); err != nil {
			errutil.Handle(ctx, err, "failed to post batch digest")
			res.SinkErrors++
		} else {
			res.SinksWritten++
		}
	}
}
