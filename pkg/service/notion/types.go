package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// Service publishes batch reports to Notion
type Service interface {
	// PublishBatchReport creates a report page for the batch under the
	// configured parent page and returns the URL of the created page
	PublishBatchReport(ctx context.Context, result *model.BatchResult) (string, error)
}

// The Notion API rejects requests carrying more than 100 child blocks, so
// larger reports are appended in chunks after the page is created.
const maxBlocksPerRequest = 100

func reportTitle(result *model.BatchResult) string {
	return fmt.Sprintf("Sales Call Insights — %s", result.Manifest.FinishedAt.Format("January 2, 2006"))
}

// buildReportBlocks converts a batch result into the block tree of the
// report page. Categories follow the canonical order so repeated runs over
// the same batch produce the same layout.
func buildReportBlocks(result *model.BatchResult) []notionapi.Block {
	man := result.Manifest
	ok := man.CountByStatus(types.CallStatusOK)
	degraded := man.CountByStatus(types.CallStatusDegraded)
	failed := man.CountByStatus(types.CallStatusFailed)

	blocks := []notionapi.Block{
		heading2("Summary"),
		bullet(fmt.Sprintf("Batch: %s", man.BatchID)),
		bullet(fmt.Sprintf("Calls Analyzed: %d (ok %d / degraded %d / failed %d)", len(man.Calls), ok, degraded, failed)),
		bullet(fmt.Sprintf("Total Insights: %d", man.TotalInsights)),
		bullet(fmt.Sprintf("Duplicates Removed: %d", man.DuplicatesRemoved)),
	}

	if !result.Themes.IsEmpty() {
		blocks = append(blocks, heading2("Top Themes"))
		for i, theme := range result.Themes.Entries {
			blocks = append(blocks, bullet(fmt.Sprintf("%d. %s (%d calls: %s)",
				i+1, theme.Label, theme.Count, joinCategoryNames(theme.Categories))))
			for _, q := range theme.Quotes {
				blocks = append(blocks, quote(q))
			}
		}
	}

	blocks = append(blocks, divider())

	for _, cat := range types.AllInsightCategories() {
		list := result.Merged[cat]
		if len(list) == 0 {
			continue
		}
		blocks = append(blocks, heading2(cat.DisplayName()))
		for i, ins := range list {
			blocks = append(blocks, heading3(fmt.Sprintf("%d. %s", i+1, ins.Summary)))
			for _, q := range ins.Quotes {
				blocks = append(blocks, quote(q))
			}
			blocks = append(blocks, paragraph(
				bold("Confidence: "),
				text(ins.Confidence.DisplayName()+" · "),
				bold("Calls: "),
				text(joinCallIDs(ins.SourceCallIDs)),
			))
		}
	}

	blocks = append(blocks, divider(), heading2("Calls"))
	for _, report := range man.Calls {
		blocks = append(blocks, bullet(callLine(report)))
	}

	return blocks
}

func callLine(report model.CallReport) string {
	line := report.CallID.String()
	if report.CompanyName != "" {
		line += " (" + report.CompanyName + ")"
	}
	line += fmt.Sprintf(": %s, %d insights", report.Status, report.InsightCount)
	if report.Error != "" {
		line += ": " + report.Error
	}
	return line
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

func text(s string) notionapi.RichText {
	return notionapi.RichText{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}
}

func bold(s string) notionapi.RichText {
	rt := text(s)
	rt.Annotations = &notionapi.Annotations{Bold: true}
	return rt
}

func heading2(s string) notionapi.Block {
	return &notionapi.Heading2Block{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeHeading2,
		},
		Heading2: notionapi.Heading{RichText: []notionapi.RichText{text(s)}},
	}
}

func heading3(s string) notionapi.Block {
	return &notionapi.Heading3Block{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeHeading3,
		},
		Heading3: notionapi.Heading{RichText: []notionapi.RichText{text(s)}},
	}
}

func paragraph(spans ...notionapi.RichText) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{RichText: spans},
	}
}

func bullet(s string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeBulletedListItem,
		},
		BulletedListItem: notionapi.ListItem{RichText: []notionapi.RichText{text(s)}},
	}
}

func quote(s string) notionapi.Block {
	return &notionapi.QuoteBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeQuote,
		},
		Quote: notionapi.Quote{RichText: []notionapi.RichText{text(s)}},
	}
}

func divider() notionapi.Block {
	return &notionapi.DividerBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeDivider,
		},
	}
}
