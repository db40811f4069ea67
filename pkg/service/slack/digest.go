package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// buildDigestBlocks constructs Block Kit blocks summarizing a batch run
func buildDigestBlocks(result *model.BatchResult) []slack.Block {
	man := result.Manifest
	okCount := man.CountByStatus(types.CallStatusOK)
	degraded := man.CountByStatus(types.CallStatusDegraded)
	failed := man.CountByStatus(types.CallStatusFailed)

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType,
				"Sales Call Insights: "+man.FinishedAt.Format("Jan 2, 2006"), true, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf(
				"*Batch:* %s\n*Calls:* %d (ok %d / degraded %d / failed %d)\n*Insights:* %d (%d duplicates removed)",
				man.BatchID, len(man.Calls), okCount, degraded, failed,
				man.TotalInsights, man.DuplicatesRemoved,
			), false, false),
			nil, nil,
		),
	}

	if !result.Themes.IsEmpty() {
		lines := make([]string, 0, len(result.Themes.Entries))
		for i, entry := range result.Themes.Entries {
			lines = append(lines, fmt.Sprintf("%d. *%s* (%d calls)", i+1, entry.Label, entry.Count))
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				"*Top Themes*\n"+strings.Join(lines, "\n"), false, false),
			nil, nil,
		))
	}

	if ids := man.FailedCallIDs(); len(ids) > 0 {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				"Failed calls: "+joinCallIDs(ids), false, false),
		))
	}

	return blocks
}

// digestText is the notification fallback shown where blocks are not rendered
func digestText(result *model.BatchResult) string {
	man := result.Manifest
	return fmt.Sprintf("Sales call insights: %d insights from %d calls", man.TotalInsights, len(man.Calls))
}

func joinCallIDs(ids []types.CallID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ", ")
}
