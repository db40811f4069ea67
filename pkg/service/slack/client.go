package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// client implements Service interface
type client struct {
	api     *slack.Client
	channel string
}

// New creates a new Slack digest service with the provided bot token. The
// channel may be an encoded channel ID or a #name.
func New(token, channel string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &client{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

// PostBatchDigest posts the batch digest and logs the message timestamp
func (c *client) PostBatchDigest(ctx context.Context, result *model.BatchResult) error {
	if result == nil {
		return goerr.New("batch result is required")
	}

	blocks := buildDigestBlocks(result)

	_, ts, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(digestText(result), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post batch digest", goerr.V("channel", c.channel))
	}

	logging.From(ctx).Info("posted batch digest",
		"channel", c.channel,
		"timestamp", ts,
	)
	return nil
}
