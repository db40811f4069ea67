package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/callsight-lab/callsight/pkg/cli/config"
	"github.com/callsight-lab/callsight/pkg/domain/interfaces"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/service/dedupe"
	"github.com/callsight-lab/callsight/pkg/service/export"
	"github.com/callsight-lab/callsight/pkg/service/extract"
	"github.com/callsight-lab/callsight/pkg/service/loader"
	"github.com/callsight-lab/callsight/pkg/service/rollup"
	"github.com/callsight-lab/callsight/pkg/usecase"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

func cmdAnalyze() *cli.Command {
	var input string
	var output string
	var formats string
	var threshold float64
	var topK int
	var concurrency int
	var noDedupe bool
	var dryRun bool
	var llmCfg config.LLM
	var profileCfg config.Profile
	var notionCfg config.Notion
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Directory containing transcript files (.json, .txt)",
			Required:    true,
			Sources:     cli.EnvVars("CALLSIGHT_INPUT"),
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Directory that report files are written to",
			Value:       "./insights",
			Sources:     cli.EnvVars("CALLSIGHT_OUTPUT"),
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Comma-separated output formats (markdown, excel, web)",
			Value:       "markdown,excel,web",
			Sources:     cli.EnvVars("CALLSIGHT_FORMAT"),
			Destination: &formats,
		},
		&cli.FloatFlag{
			Name:        "threshold",
			Usage:       "Similarity threshold at which two insights merge",
			Value:       dedupe.DefaultThreshold,
			Sources:     cli.EnvVars("CALLSIGHT_THRESHOLD"),
			Destination: &threshold,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "How many themes the batch rollup keeps",
			Value:       rollup.DefaultTopK,
			Sources:     cli.EnvVars("CALLSIGHT_TOP_K"),
			Destination: &topK,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "How many calls are analyzed in parallel",
			Value:       usecase.DefaultConcurrency,
			Sources:     cli.EnvVars("CALLSIGHT_CONCURRENCY"),
			Destination: &concurrency,
		},
		&cli.BoolFlag{
			Name:        "no-dedupe",
			Usage:       "Keep every extracted insight without merging duplicates",
			Sources:     cli.EnvVars("CALLSIGHT_NO_DEDUPE"),
			Destination: &noDedupe,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Run the pipeline without writing reports or posting digests",
			Sources:     cli.EnvVars("CALLSIGHT_DRY_RUN"),
			Destination: &dryRun,
		},
	}

	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, profileCfg.Flags()...)
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Extract, deduplicate, and roll up insights from a transcript directory",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			sinks, err := buildSinks(formats, output)
			if err != nil {
				return err
			}

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM provider")
			}
			if llmClient == nil {
				return goerr.New("LLM provider is not configured: set --llm-provider and its credentials")
			}

			profile, err := profileCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load extraction profile")
			}
			if profile != nil {
				logger.Info("Extraction profile loaded", "path", profileCfg.Path(), "categories", len(profile.Categories))
			}

			extractor, err := extract.New(llmClient, extract.WithProfile(profile))
			if err != nil {
				return goerr.Wrap(err, "failed to initialize extraction service")
			}

			notionSvc, err := notionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Notion")
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack")
			}

			ucOpts := []usecase.Option{
				usecase.WithDedupe(dedupe.New(dedupe.WithThreshold(threshold))),
				usecase.WithRollup(rollup.New(rollup.WithTopK(topK))),
				usecase.WithSinks(sinks...),
				usecase.WithConcurrency(concurrency),
			}
			if noDedupe {
				ucOpts = append(ucOpts, usecase.WithoutDedupe())
			}
			if notionSvc != nil {
				ucOpts = append(ucOpts, usecase.WithNotion(notionSvc))
				logger.Info("Notion report publishing enabled")
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc))
				logger.Info("Slack digest posting enabled")
			}

			uc := usecase.New(loader.New(input), extractor, ucOpts...)

			result, err := uc.Analyze(ctx, usecase.AnalyzeOption{DryRun: dryRun})
			if err != nil {
				return goerr.Wrap(err, "failed to analyze batch")
			}

			printManifest(os.Stdout, result, output, dryRun)

			man := result.Batch.Manifest
			if len(man.Calls) > 0 && man.CountByStatus(types.CallStatusFailed) == len(man.Calls) {
				return goerr.New("all calls failed", goerr.V("calls", len(man.Calls)))
			}

			return nil
		},
	}
}

// buildSinks maps the comma-separated format list onto export sinks rooted at
// the output directory
func buildSinks(formats, outputDir string) ([]interfaces.InsightSink, error) {
	var sinks []interfaces.InsightSink
	for _, f := range strings.Split(formats, ",") {
		switch strings.TrimSpace(f) {
		case "markdown":
			sinks = append(sinks, export.NewMarkdown(outputDir))
		case "excel":
			sinks = append(sinks, export.NewExcel(filepath.Join(outputDir, "insights.xlsx")))
		case "web":
			sinks = append(sinks, export.NewWebData(filepath.Join(outputDir, "web")))
		case "":
		default:
			return nil, goerr.New("unknown output format", goerr.V("format", f))
		}
	}
	return sinks, nil
}

func statusColor(status types.CallStatus) *color.Color {
	switch status {
	case types.CallStatusOK:
		return color.New(color.FgGreen)
	case types.CallStatusDegraded:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// printManifest renders the per-call table and the batch tally to the
// terminal
func printManifest(w io.Writer, result *usecase.AnalyzeResult, outputDir string, dryRun bool) {
	man := result.Batch.Manifest
	bold := color.New(color.Bold)

	fmt.Fprintf(w, "\n%s  %d calls\n\n", bold.Sprintf("Batch %s", man.BatchID), len(man.Calls))

	idWidth := len("CALL")
	for _, report := range man.Calls {
		if n := len(report.CallID.String()); n > idWidth {
			idWidth = n
		}
	}

	fmt.Fprintf(w, "  %-*s  %-10s  %8s  %s\n", idWidth, "CALL", "STATUS", "INSIGHTS", "COMPANY")
	for _, report := range man.Calls {
		// Pad inside the color call so ANSI codes don't skew the column width
		status := statusColor(report.Status).Sprintf("%-10s", report.Status)
		line := fmt.Sprintf("  %-*s  %s  %8d  %s",
			idWidth, report.CallID, status, report.InsightCount, report.CompanyName)
		if report.Error != "" {
			line += "  " + color.New(color.FgRed).Sprint(report.Error)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\n  %s from %d calls (%d duplicates removed)\n",
		bold.Sprintf("%d insights", man.TotalInsights), len(man.Calls), man.DuplicatesRemoved)

	if themes := result.Batch.Themes; !themes.IsEmpty() {
		fmt.Fprintf(w, "\n  %s\n", bold.Sprint("Top themes"))
		for i, entry := range themes.Entries {
			fmt.Fprintf(w, "    %d. %s (%d calls)\n", i+1, entry.Label, entry.Count)
		}
	}

	switch {
	case dryRun:
		fmt.Fprintf(w, "\n  Dry run: no reports written\n")
	case result.SinksWritten > 0 || result.SinkErrors > 0:
		fmt.Fprintf(w, "\n  Output: %s (%d sinks written, %d failed)\n", outputDir, result.SinksWritten, result.SinkErrors)
	}
	if result.ReportURL != "" {
		fmt.Fprintf(w, "  Report: %s\n", result.ReportURL)
	}
	fmt.Fprintln(w)
}
