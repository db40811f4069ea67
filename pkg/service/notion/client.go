package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// client implements Service interface
type client struct {
	api    *notionapi.Client
	parent string
}

// New creates a Notion report publisher that files batch report pages under
// the given parent page
func New(token, parentPageID string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}
	if parentPageID == "" {
		return nil, goerr.New("Notion parent page ID is required")
	}

	return &client{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
		),
		parent: parentPageID,
	}, nil
}

// PublishBatchReport creates the report page with the first chunk of blocks
// and appends the rest in follow-up requests.
func (c *client) PublishBatchReport(ctx context.Context, result *model.BatchResult) (string, error) {
	if result == nil {
		return "", goerr.New("batch result is required")
	}

	blocks := buildReportBlocks(result)

	head := blocks
	if len(head) > maxBlocksPerRequest {
		head = blocks[:maxBlocksPerRequest]
	}

	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(c.parent),
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: []notionapi.RichText{text(reportTitle(result))},
			},
		},
		Children: head,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create report page", goerr.V("parentPageID", c.parent))
	}

	for offset := maxBlocksPerRequest; offset < len(blocks); offset += maxBlocksPerRequest {
		end := min(offset+maxBlocksPerRequest, len(blocks))
		_, err := c.api.Block.AppendChildren(ctx, notionapi.BlockID(page.ID.String()), &notionapi.AppendBlockChildrenRequest{
			Children: blocks[offset:end],
		})
		if err != nil {
			return "", goerr.Wrap(err, "failed to append report blocks",
				goerr.V("pageID", page.ID.String()), goerr.V("offset", offset))
		}
	}

	logging.From(ctx).Info("published batch report page",
		"pageID", page.ID.String(),
		"blocks", len(blocks),
	)

	return page.URL, nil
}
