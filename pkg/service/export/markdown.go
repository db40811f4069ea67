package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// Markdown renders a batch as markdown: one summary document covering the
// whole run plus one report per call under calls/
type Markdown struct {
	dir string
}

// NewMarkdown creates a markdown sink writing into the given directory
func NewMarkdown(dir string) *Markdown {
	return &Markdown{dir: dir}
}

// Name identifies the sink
func (m *Markdown) Name() string {
	return "markdown"
}

// Write renders the batch summary and the per-call reports
func (m *Markdown) Write(ctx context.Context, result *model.BatchResult) error {
	if result == nil {
		return goerr.New("batch result is required")
	}
	if err := os.MkdirAll(filepath.Join(m.dir, "calls"), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create markdown output directory", goerr.V("dir", m.dir))
	}

	summaryPath := filepath.Join(m.dir, "batch-summary.md")
	if err := os.WriteFile(summaryPath, []byte(renderBatchSummary(result)), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write batch summary", goerr.V("path", summaryPath))
	}

	for _, ci := range result.Calls {
		path := filepath.Join(m.dir, "calls", ci.CallID.String()+".md")
		if err := os.WriteFile(path, []byte(renderCallReport(ci)), 0o644); err != nil {
			return goerr.Wrap(err, "failed to write call report", goerr.V("path", path))
		}
	}

	logging.From(ctx).Info("wrote markdown reports", "dir", m.dir, "calls", len(result.Calls))
	return nil
}

// renderBatchSummary builds the run-level document: headline counters, the
// theme table, the cross-call insight sections, and the per-call manifest
// table. Pure function of the result so output is reproducible.
func renderBatchSummary(result *model.BatchResult) string {
	var b strings.Builder
	man := &result.Manifest

	fmt.Fprintf(&b, "# Sales Call Insights — %s\n\n", man.FinishedAt.Format("January 2, 2006"))
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Batch:** %s\n", man.BatchID)
	fmt.Fprintf(&b, "- **Calls Analyzed:** %d (ok %d / degraded %d / failed %d)\n",
		len(man.Calls),
		man.CountByStatus(types.CallStatusOK),
		man.CountByStatus(types.CallStatusDegraded),
		man.CountByStatus(types.CallStatusFailed),
	)
	fmt.Fprintf(&b, "- **Total Insights:** %d\n", man.TotalInsights)
	fmt.Fprintf(&b, "- **Duplicates Removed:** %d\n\n", man.DuplicatesRemoved)

	if !result.Themes.IsEmpty() {
		b.WriteString("## Top Themes\n\n")
		b.WriteString("| # | Theme | Calls | Categories |\n")
		b.WriteString("|---|-------|-------|------------|\n")
		for i, entry := range result.Themes.Entries {
			fmt.Fprintf(&b, "| %d | %s | %d | %s |\n",
				i+1, entry.Label, entry.Count, joinCategoryNames(entry.Categories))
		}
		b.WriteString("\n")

		for _, entry := range result.Themes.Entries {
			for _, q := range entry.Quotes {
				fmt.Fprintf(&b, "- %s: %q\n", entry.Label, q)
			}
		}
		b.WriteString("\n")
	}

	for _, cat := range types.AllInsightCategories() {
		list := result.Merged[cat]
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", cat.DisplayName())
		for i, ins := range list {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, ins.Summary)
			for _, q := range ins.Quotes {
				fmt.Fprintf(&b, "> %q\n\n", q)
			}
			fmt.Fprintf(&b, "**Confidence:** %s · **Calls:** %s\n\n",
				ins.Confidence.DisplayName(), joinCallIDs(ins.SourceCallIDs))
		}
	}

	b.WriteString("## Calls\n\n")
	b.WriteString("| Call | Rep | Company | Status | Insights |\n")
	b.WriteString("|------|-----|---------|--------|----------|\n")
	for _, c := range man.Calls {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
			c.CallID, orUnknown(c.RepName), orUnknown(c.CompanyName), c.Status, c.InsightCount)
	}
	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "*Generated by Callsight at %s*\n", man.FinishedAt.Format(time.RFC3339))
	return b.String()
}

// renderCallReport builds one call's document: metadata header plus a section
// per category in canonical order, empty categories included so readers see
// what produced nothing
func renderCallReport(ci *model.CallInsights) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s — %s\n\n", orUnknown(ci.Meta.CompanyName), callDateLabel(ci.Meta.CallDate))
	fmt.Fprintf(&b, "- **Call:** %s\n", ci.CallID)
	fmt.Fprintf(&b, "- **Rep:** %s\n", orUnknown(ci.Meta.RepName))
	fmt.Fprintf(&b, "- **Type:** %s\n", orDefault(ci.Meta.CallType, "Sales Call"))
	fmt.Fprintf(&b, "- **Insights:** %d\n\n", ci.Total())
	if ci.Degraded {
		b.WriteString("> Extraction was degraded for this call; categories may be incomplete.\n\n")
	}

	for _, cat := range types.AllInsightCategories() {
		fmt.Fprintf(&b, "## %s\n\n", cat.DisplayName())
		list := ci.Categories[cat]
		if len(list) == 0 {
			b.WriteString("*No insights extracted for this category.*\n\n")
			continue
		}
		for i, ins := range list {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, ins.Summary)
			if ins.Quote != "" {
				fmt.Fprintf(&b, "> %q\n\n", ins.Quote)
			}
			fmt.Fprintf(&b, "**Confidence:** %s", ins.Confidence.DisplayName())
			if ref := ins.SegmentRef; ref != nil {
				fmt.Fprintf(&b, " · **Source:** [%s] %s", model.FormatTimestamp(ref.Timestamp), ref.SpeakerName)
			}
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func joinCategoryNames(cats []types.InsightCategory) string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.DisplayName())
	}
	return strings.Join(names, ", ")
}

func joinCallIDs(ids []types.CallID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ", ")
}

func orUnknown(v string) string {
	return orDefault(v, "Unknown")
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func callDateLabel(d time.Time) string {
	if d.IsZero() {
		return "Unknown"
	}
	return d.Format("2006-01-02")
}
