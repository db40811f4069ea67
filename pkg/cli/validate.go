package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/callsight-lab/callsight/pkg/cli/config"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var profilePath string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate an extraction profile against the category set",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "profile",
				Usage:       "Extraction profile TOML file to validate",
				Required:    true,
				Sources:     cli.EnvVars("CALLSIGHT_PROFILE"),
				Destination: &profilePath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			profile, err := config.LoadExtractionProfile(profilePath)
			if err != nil {
				return goerr.Wrap(err, "profile validation failed")
			}

			logger.Info("Profile validation passed",
				"path", profilePath,
				"categories", len(profile.Categories),
			)
			for _, guide := range profile.Categories {
				logger.Info("Category override validated",
					"category", guide.Category,
					"name", guide.Name,
				)
			}

			return nil
		},
	}
}
