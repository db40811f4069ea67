package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/service/dedupe"
)

// quoteMatchThreshold is the minimum similarity for attaching a quote to a
// transcript segment.
const quoteMatchThreshold = 0.55

// parseResponse decodes one model response and collects everything wrong
// with it. A nil raw value means the text was not usable at all.
func parseResponse(text string) (*rawResponse, []violation) {
	if strings.TrimSpace(text) == "" {
		return nil, []violation{{kind: violationMalformed, detail: "response is empty"}}
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, []violation{{kind: violationMalformed, detail: fmt.Sprintf("response is not valid JSON: %s", err)}}
	}

	var violations []violation
	for _, cat := range types.AllInsightCategories() {
		for i, item := range raw.items(cat) {
			if strings.TrimSpace(item.Summary) == "" {
				violations = append(violations, violation{
					kind:     violationMissingSummary,
					category: cat,
					index:    i,
					detail:   "summary is required",
				})
			}
			if !confidenceAcceptable(item.Confidence) {
				violations = append(violations, violation{
					kind:     violationBadConfidence,
					category: cat,
					index:    i,
					detail:   fmt.Sprintf("confidence %q is not one of low, medium, high", item.Confidence),
				})
			}
		}
	}
	return &raw, violations
}

func confidenceAcceptable(s string) bool {
	return types.Confidence(strings.ToLower(strings.TrimSpace(s))).IsValid()
}

// convert materializes raw items into CallInsights. It enforces the
// per-category cap, drops items without a summary, clamps confidence, and
// attaches a segment reference when the quote matches transcript text. The
// same conversion serves clean responses and salvaged ones; for a clean
// response the lenient steps are no-ops.
func (c *client) convert(raw *rawResponse, t *model.Transcript) *model.CallInsights {
	ci := model.NewCallInsights(t.ID, t.Meta)
	for _, cat := range types.AllInsightCategories() {
		items := raw.items(cat)
		if len(items) > c.maxPerCategory {
			items = items[:c.maxPerCategory]
		}
		for _, item := range items {
			summary := strings.TrimSpace(item.Summary)
			if summary == "" {
				continue
			}
			ins := model.NewInsight(cat, summary, strings.TrimSpace(item.Quote), types.ClampConfidence(item.Confidence), t.ID)
			if ins.Quote != "" {
				if ref, ok := bestSegmentRef(t, ins.Quote); ok {
					ins.SegmentRef = &ref
				}
			}
			ci.Add(ins)
		}
	}
	return ci
}

// bestSegmentRef finds the transcript segment that most plausibly contains
// the quote. Containment of normalized text counts as a perfect match;
// otherwise the dedupe similarity decides. Below the threshold nothing is
// attached and nothing fails.
func bestSegmentRef(t *model.Transcript, quote string) (model.SegmentRef, bool) {
	qn := dedupe.Normalize(quote)
	if qn == "" {
		return model.SegmentRef{}, false
	}

	best := -1
	bestScore := 0.0
	for i, seg := range t.Segments {
		sn := dedupe.Normalize(seg.Text)
		if sn == "" {
			continue
		}
		var score float64
		if strings.Contains(sn, qn) || strings.Contains(qn, sn) {
			score = 1.0
		} else {
			score = dedupe.TextSimilarity(quote, seg.Text)
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 || bestScore < quoteMatchThreshold {
		return model.SegmentRef{}, false
	}
	seg := t.Segments[best]
	return model.SegmentRef{
		Index:       best,
		SpeakerName: seg.SpeakerName,
		Timestamp:   seg.Start,
	}, true
}
