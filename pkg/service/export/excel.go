package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
	"github.com/callsight-lab/callsight/pkg/utils/safe"
)

// Excel writes one xlsx workbook per batch: a Summary sheet with the run
// counters, an Insights sheet with the cross-call deduplicated rows, and a
// Themes sheet with the rollup
type Excel struct {
	path string
}

// NewExcel creates an excel sink writing the workbook at the given path
func NewExcel(path string) *Excel {
	return &Excel{path: path}
}

// Name identifies the sink
func (e *Excel) Name() string {
	return "excel"
}

// Write builds and saves the workbook
func (e *Excel) Write(ctx context.Context, result *model.BatchResult) error {
	if result == nil {
		return goerr.New("batch result is required")
	}
	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return goerr.Wrap(err, "failed to create workbook directory", goerr.V("dir", dir))
		}
	}

	f := excelize.NewFile()
	defer safe.Close(ctx, f)

	if err := writeSummarySheet(f, result); err != nil {
		return err
	}
	if err := writeInsightsSheet(f, result); err != nil {
		return err
	}
	if err := writeThemesSheet(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(e.path); err != nil {
		return goerr.Wrap(err, "failed to save workbook", goerr.V("path", e.path))
	}

	logging.From(ctx).Info("wrote workbook", "path", e.path)
	return nil
}

func writeSummarySheet(f *excelize.File, result *model.BatchResult) error {
	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return goerr.Wrap(err, "failed to rename summary sheet")
	}

	man := &result.Manifest
	rows := [][]any{
		{"Batch", man.BatchID.String()},
		{"Started", man.StartedAt.Format(time.RFC3339)},
		{"Finished", man.FinishedAt.Format(time.RFC3339)},
		{"Calls", len(man.Calls)},
		{"OK", man.CountByStatus(types.CallStatusOK)},
		{"Degraded", man.CountByStatus(types.CallStatusDegraded)},
		{"Failed", man.CountByStatus(types.CallStatusFailed)},
		{"Total Insights", man.TotalInsights},
		{"Duplicates Removed", man.DuplicatesRemoved},
	}
	for i, row := range rows {
		if err := writeRow(f, "Summary", i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeInsightsSheet(f *excelize.File, result *model.BatchResult) error {
	if _, err := f.NewSheet("Insights"); err != nil {
		return goerr.Wrap(err, "failed to create insights sheet")
	}

	header := []any{"Category", "Summary", "Confidence", "Calls", "Quotes"}
	if err := writeRow(f, "Insights", 1, header); err != nil {
		return err
	}

	row := 2
	for _, cat := range types.AllInsightCategories() {
		for _, ins := range result.Merged[cat] {
			values := []any{
				cat.DisplayName(),
				ins.Summary,
				ins.Confidence.DisplayName(),
				joinCallIDs(ins.SourceCallIDs),
				strings.Join(ins.Quotes, "\n"),
			}
			if err := writeRow(f, "Insights", row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeThemesSheet(f *excelize.File, result *model.BatchResult) error {
	if _, err := f.NewSheet("Themes"); err != nil {
		return goerr.Wrap(err, "failed to create themes sheet")
	}

	header := []any{"Rank", "Theme", "Calls", "Categories", "Examples"}
	if err := writeRow(f, "Themes", 1, header); err != nil {
		return err
	}

	if result.Themes.IsEmpty() {
		return nil
	}
	for i, entry := range result.Themes.Entries {
		values := []any{
			i + 1,
			entry.Label,
			entry.Count,
			joinCategoryNames(entry.Categories),
			strings.Join(entry.Quotes, "\n"),
		}
		if err := writeRow(f, "Themes", i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return goerr.Wrap(err, "failed to build cell coordinate", goerr.V("sheet", sheet), goerr.V("row", row), goerr.V("col", col))
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return goerr.Wrap(err, "failed to set cell", goerr.V("sheet", sheet), goerr.V("cell", cell))
		}
	}
	return nil
}
