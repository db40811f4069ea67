package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/callsight-lab/callsight/pkg/service/loader"
)

func cmdList() *cli.Command {
	var input string

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"l"},
		Usage:   "List transcripts discovered in a directory without analyzing them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Directory containing transcript files (.json, .txt)",
				Required:    true,
				Sources:     cli.EnvVars("CALLSIGHT_INPUT"),
				Destination: &input,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			entries, err := loader.New(input).List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list transcripts", goerr.V("input", input))
			}

			if len(entries) == 0 {
				fmt.Fprintf(os.Stdout, "No transcripts found in %s\n", input)
				return nil
			}

			bold := color.New(color.Bold)
			fmt.Fprintf(os.Stdout, "%s\n\n", bold.Sprintf("%d transcripts in %s", len(entries), input))
			for _, entry := range entries {
				tr := entry.Transcript
				fmt.Fprintf(os.Stdout, "  %-16s  %-16s  %-20s  %3d segments  %s\n",
					tr.ID, tr.Meta.RepName, tr.Meta.CompanyName, len(tr.Segments), entry.Path)
			}

			return nil
		},
	}
}
