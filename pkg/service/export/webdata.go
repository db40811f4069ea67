package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// WebData writes the machine-readable batch artifacts an external dashboard
// consumes: insights.json, themes.json, and manifest.json
type WebData struct {
	dir string
}

// NewWebData creates a web-data sink writing into the given directory
func NewWebData(dir string) *WebData {
	return &WebData{dir: dir}
}

// Name identifies the sink
func (w *WebData) Name() string {
	return "webdata"
}

type webInsight struct {
	Summary    string   `json:"summary"`
	Confidence string   `json:"confidence"`
	Quotes     []string `json:"quotes,omitempty"`
	CallIDs    []string `json:"call_ids"`
}

type webInsights struct {
	Status        string                  `json:"status"`
	GeneratedAt   string                  `json:"generated_at"`
	TotalCalls    int                     `json:"total_calls"`
	TotalInsights int                     `json:"total_insights"`
	Categories    map[string][]webInsight `json:"categories"`
}

type webTheme struct {
	Theme      string   `json:"theme"`
	Count      int      `json:"count"`
	Categories []string `json:"categories"`
	Examples   []string `json:"examples,omitempty"`
	CallIDs    []string `json:"call_ids"`
}

type webThemes struct {
	Status      string     `json:"status"`
	GeneratedAt string     `json:"generated_at"`
	TopThemes   []webTheme `json:"top_themes"`
}

type webCallReport struct {
	CallID       string `json:"call_id"`
	RepName      string `json:"rep_name"`
	CompanyName  string `json:"company_name"`
	Status       string `json:"status"`
	InsightCount int    `json:"insight_count"`
	Error        string `json:"error,omitempty"`
}

type webManifest struct {
	BatchID           string          `json:"batch_id"`
	StartedAt         string          `json:"started_at"`
	FinishedAt        string          `json:"finished_at"`
	Calls             []webCallReport `json:"calls"`
	TotalInsights     int             `json:"total_insights"`
	DuplicatesRemoved int             `json:"duplicates_removed"`
}

// Write renders the three JSON artifacts
func (w *WebData) Write(ctx context.Context, result *model.BatchResult) error {
	if result == nil {
		return goerr.New("batch result is required")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create web data directory", goerr.V("dir", w.dir))
	}

	generatedAt := result.Manifest.FinishedAt.Format(time.RFC3339)

	insights := webInsights{
		Status:        "ok",
		GeneratedAt:   generatedAt,
		TotalCalls:    len(result.Calls),
		TotalInsights: result.MergedTotal(),
		Categories:    make(map[string][]webInsight, len(types.AllInsightCategories())),
	}
	for _, cat := range types.AllInsightCategories() {
		list := make([]webInsight, 0, len(result.Merged[cat]))
		for _, ins := range result.Merged[cat] {
			list = append(list, webInsight{
				Summary:    ins.Summary,
				Confidence: ins.Confidence.String(),
				Quotes:     ins.Quotes,
				CallIDs:    stringIDs(ins.SourceCallIDs),
			})
		}
		insights.Categories[cat.String()] = list
	}

	themes := webThemes{
		Status:      "ok",
		GeneratedAt: generatedAt,
		TopThemes:   []webTheme{},
	}
	if !result.Themes.IsEmpty() {
		for _, entry := range result.Themes.Entries {
			themes.TopThemes = append(themes.TopThemes, webTheme{
				Theme:      entry.Label,
				Count:      entry.Count,
				Categories: categoryStrings(entry.Categories),
				Examples:   entry.Quotes,
				CallIDs:    stringIDs(entry.CallIDs),
			})
		}
	}

	manifest := webManifest{
		BatchID:           result.Manifest.BatchID.String(),
		StartedAt:         result.Manifest.StartedAt.Format(time.RFC3339),
		FinishedAt:        generatedAt,
		Calls:             make([]webCallReport, 0, len(result.Manifest.Calls)),
		TotalInsights:     result.Manifest.TotalInsights,
		DuplicatesRemoved: result.Manifest.DuplicatesRemoved,
	}
	for _, c := range result.Manifest.Calls {
		manifest.Calls = append(manifest.Calls, webCallReport{
			CallID:       c.CallID.String(),
			RepName:      c.RepName,
			CompanyName:  c.CompanyName,
			Status:       c.Status.String(),
			InsightCount: c.InsightCount,
			Error:        c.Error,
		})
	}

	files := []struct {
		name string
		body any
	}{
		{name: "insights.json", body: insights},
		{name: "themes.json", body: themes},
		{name: "manifest.json", body: manifest},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(w.dir, f.name), f.body); err != nil {
			return err
		}
	}

	logging.From(ctx).Info("wrote web data", "dir", w.dir)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode web data", goerr.V("path", path))
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write web data", goerr.V("path", path))
	}
	return nil
}

func stringIDs(ids []types.CallID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func categoryStrings(cats []types.InsightCategory) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.String())
	}
	return out
}
