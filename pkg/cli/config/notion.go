package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/callsight-lab/callsight/pkg/service/notion"
)

// Notion holds configuration for the Notion report sink
type Notion struct {
	apiToken     string
	parentPageID string
}

// Flags returns CLI flags for Notion configuration
func (n *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion API token for report publishing",
			Category:    "Notion",
			Sources:     cli.EnvVars("CALLSIGHT_NOTION_API_TOKEN"),
			Destination: &n.apiToken,
		},
		&cli.StringFlag{
			Name:        "notion-parent-page",
			Usage:       "Notion page ID that batch report pages are created under",
			Category:    "Notion",
			Sources:     cli.EnvVars("CALLSIGHT_NOTION_PARENT_PAGE"),
			Destination: &n.parentPageID,
		},
	}
}

// LogValue returns log attributes for the Notion configuration (token hidden)
func (n Notion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-token.len", len(n.apiToken)),
		slog.String("parent_page", n.parentPageID),
	)
}

// IsConfigured returns true if both Notion flags are set
func (n *Notion) IsConfigured() bool {
	return n.apiToken != "" && n.parentPageID != ""
}

// Configure creates a Notion service from the configured flags. Returns nil
// when neither flag is set (report publishing will be disabled).
func (n *Notion) Configure() (notion.Service, error) {
	if n.apiToken == "" && n.parentPageID == "" {
		return nil, nil
	}
	if !n.IsConfigured() {
		return nil, goerr.New("both --notion-api-token and --notion-parent-page are required for Notion publishing")
	}
	return notion.New(n.apiToken, n.parentPageID)
}
