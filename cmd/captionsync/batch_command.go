package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"captionsync/internal/captions"
	"captionsync/internal/deps"
	"captionsync/internal/logging"
	"captionsync/internal/preflight"
	"captionsync/internal/services"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var inPlace bool
	var parallel int
	var metricsFile string
	var forceEstimate bool

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Caption every story folder under a directory",
		Long: `Caption every story folder under a directory. A story folder holds
original.txt and an audio.* file, plus optional expanded.txt and title.txt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve batch dir: %w", err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
				for _, result := range failed {
					fmt.Fprintln(out, renderStatusLine(result.Name, statusError, result.Detail, colorize))
				}
				return services.Wrap(services.ErrConfiguration, "batch", "preflight", fmt.Sprintf("%d checks failed", len(failed)), nil)
			}

			if !deps.AllSatisfied(preflight.CheckSystemDeps(cmd.Context(), cfg, false)) {
				return services.Wrap(services.ErrConfiguration, "batch", "preflight", "required tools missing; run captionsync check", nil)
			}

			dest := strings.TrimSpace(outputDir)
			switch {
			case inPlace:
				dest = ""
			case dest == "":
				dest = cfg.Paths.OutputDir
			}
			jobs, err := captions.DiscoverJobs(root, dest)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintf(out, "No story folders found under %s\n", root)
				return nil
			}

			var opts []captions.ServiceOption
			if forceEstimate {
				opts = append(opts, captions.WithoutTranscriber())
			}
			svc, metrics, cleanup, err := ctx.captionService(cmd, opts...)
			if err != nil {
				return err
			}
			defer cleanup()

			report, runErr := svc.RunBatch(cmd.Context(), root, jobs, captions.BatchOptions{
				MaxParallel:   parallel,
				LogDir:        filepath.Join(cfg.Paths.LogDir, "jobs"),
				ForceEstimate: forceEstimate,
			})
			if errors.Is(runErr, captions.ErrBatchLocked) {
				return fmt.Errorf("%w: %s", runErr, root)
			}

			if len(report.Outcomes) > 0 {
				fmt.Fprintln(out, renderBatchTable(report, colorize))
			}

			target := strings.TrimSpace(metricsFile)
			if target == "" {
				target = cfg.Batch.MetricsFile
			}
			if target != "" {
				if err := metrics.WriteTextfile(target); err != nil {
					logger, _ := ctx.ensureLogger()
					logging.WarnWithContext(logger, "metrics export failed", "metrics_write_failed",
						logging.Error(err),
						logging.String(logging.FieldImpact, "batch metrics not exported"),
					)
				}
			}

			if runErr != nil {
				return runErr
			}
			if report.Failed() {
				attention := report.Count(services.StatusFailed) + report.Count(services.StatusReview)
				return fmt.Errorf("%d of %d stories need attention", attention, len(report.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for SRT files (default: paths.output_dir)")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "Write captions.srt inside each story folder")
	cmd.Flags().IntVarP(&parallel, "parallel", "j", 0, "Concurrent jobs (default: batch.max_parallel)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVar(&forceEstimate, "force-estimate", false, "Skip the recognizer and time captions from text length")
	return cmd
}

func renderBatchTable(report captions.BatchReport, colorize bool) string {
	rows := make([][]string, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		result := outcome.Result
		source := result.Source
		if result.FallbackReason != "" {
			source += " (" + result.FallbackReason + ")"
		}
		detail := ""
		switch {
		case outcome.Err != nil:
			detail = outcome.Err.Error()
		case len(result.Issues) > 0:
			detail = strings.Join(result.Issues, "; ")
		default:
			detail = filepath.Base(result.OutputPath)
		}
		rows = append(rows, []string{
			outcome.Job.Name,
			colorizeStatus(outcome.Status, colorize),
			source,
			strconv.Itoa(len(result.Cues)),
			fmt.Sprintf("%.0f%%", result.Stats.LowConfidenceRatio()*100),
			result.Elapsed.Round(10 * time.Millisecond).String(),
			detail,
		})
	}
	elapsed := report.Finished.Sub(report.Started).Round(time.Millisecond)
	footer := []string{
		fmt.Sprintf("%d stories", len(report.Outcomes)),
		fmt.Sprintf("%d ok", report.Count(services.StatusCompleted)),
		"", "", "",
		elapsed.String(),
		"finished " + humanize.Time(report.Finished),
	}
	return renderTable(tableSpec{
		Headers: []string{"Story", "Status", "Timing", "Cues", "Low", "Elapsed", "Detail"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		Footer:  footer,
	})
}
