package export_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/xuri/excelize/v2"

	"github.com/callsight-lab/callsight/pkg/service/export"
)

func TestExcel_WritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.xlsx")
	sink := export.NewExcel(path)
	gt.V(t, sink.Name()).Equal("excel")

	gt.NoError(t, sink.Write(context.Background(), sampleResult())).Required()

	f, err := excelize.OpenFile(path)
	gt.NoError(t, err).Required()
	defer f.Close()

	gt.A(t, f.GetSheetList()).Has("Summary").Has("Insights").Has("Themes")

	summary, err := f.GetRows("Summary")
	gt.NoError(t, err).Required()
	gt.V(t, summary[0][0]).Equal("Batch")
	gt.V(t, summary[0][1]).Equal("batch-0001")
	gt.V(t, summary[3][0]).Equal("Calls")
	gt.V(t, summary[3][1]).Equal("3")

	insights, err := f.GetRows("Insights")
	gt.NoError(t, err).Required()
	gt.A(t, insights).Length(3).Required()
	gt.V(t, insights[0][0]).Equal("Category")
	gt.V(t, insights[1][0]).Equal("Product Recommendations")
	gt.V(t, insights[1][1]).Equal("Wants Salesforce integration")
	gt.V(t, insights[1][3]).Equal("call-001, call-002")
	gt.V(t, insights[2][0]).Equal("FAQs")

	themes, err := f.GetRows("Themes")
	gt.NoError(t, err).Required()
	gt.A(t, themes).Length(3).Required()
	gt.V(t, themes[1][1]).Equal("Wants Salesforce integration")
	gt.V(t, themes[1][2]).Equal("2")
}

func TestExcel_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "insights.xlsx")
	sink := export.NewExcel(path)

	gt.NoError(t, sink.Write(context.Background(), sampleResult())).Required()

	f, err := excelize.OpenFile(path)
	gt.NoError(t, err).Required()
	defer f.Close()
	gt.A(t, f.GetSheetList()).Has("Summary")
}
