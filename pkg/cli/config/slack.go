package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/callsight-lab/callsight/pkg/service/slack"
)

// Slack holds configuration for the Slack digest sink
type Slack struct {
	botToken string
	channel  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for digest posting",
			Category:    "Slack",
			Sources:     cli.EnvVars("CALLSIGHT_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel that batch digests are posted to",
			Category:    "Slack",
			Sources:     cli.EnvVars("CALLSIGHT_SLACK_CHANNEL"),
			Destination: &s.channel,
		},
	}
}

// LogValue returns log attributes for the Slack configuration (token hidden)
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(s.botToken)),
		slog.String("channel", s.channel),
	)
}

// IsConfigured returns true if both Slack flags are set
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" && s.channel != ""
}

// Configure creates a Slack service from the configured flags. Returns nil
// when neither flag is set (digest posting will be disabled).
func (s *Slack) Configure() (slack.Service, error) {
	if s.botToken == "" && s.channel == "" {
		return nil, nil
	}
	if !s.IsConfigured() {
		return nil, goerr.New("both --slack-bot-token and --slack-channel are required for digest posting")
	}
	return slack.New(s.botToken, s.channel)
}
