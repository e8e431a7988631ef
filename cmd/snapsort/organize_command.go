package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"snapsort/internal/pipeline"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var withClustering bool
	var jobs int
	var indexPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize <source> <dest>",
		Short: "Organize photos from source into a date-based tree under dest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := pipeline.Options{
				Source:         args[0],
				Dest:           args[1],
				IndexPath:      indexPath,
				Jobs:           jobs,
				WithClustering: withClustering,
				DryRun:         dryRun,
			}

			var bar *progressbar.ProgressBar
			if ctx.verbose() && isatty.IsTerminal(os.Stderr.Fd()) {
				opts.OnAnalyzeStart = func(total int) {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("analyzing"),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionClearOnFinish(),
					)
				}
				opts.OnAnalyzeProgress = func(n int) {
					if bar != nil {
						_ = bar.Add(n)
					}
				}
			}

			summary, err := pipeline.New(cfg, opts, logger).Run(runCtx)
			if bar != nil {
				_ = bar.Finish()
			}
			if summary != nil {
				fmt.Fprintln(cmd.OutOrStdout(), summaryTable(summary))
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&withClustering, "with-clustering", false, "Group geotagged photos into location directories")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Analyzer worker count (0 = one per CPU)")
	cmd.Flags().StringVar(&indexPath, "index", "", "Index file path (default: index file inside dest)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned moves without writing anything")

	return cmd
}

func summaryTable(s *pipeline.Summary) string {
	title := "Run " + s.RunID
	if s.DryRun {
		title += " (dry run)"
	}
	rows := []kv{
		{"Scanned", strconv.Itoa(s.Scanned)},
		{"Analyzed", strconv.Itoa(s.Analyzed)},
		{"Duplicates", strconv.Itoa(s.Duplicates)},
		{"Organized", strconv.Itoa(s.Organized)},
	}
	if s.Clustered > 0 || s.Noise > 0 {
		rows = append(rows,
			kv{"Clustered", strconv.Itoa(s.Clustered)},
			kv{"Unclustered GPS", strconv.Itoa(s.Noise)},
		)
	}
	rows = append(rows,
		kv{"Failed", strconv.Itoa(s.Failed())},
		kv{"Copied", humanize.Bytes(uint64(s.BytesCopied))},
		kv{"Elapsed", s.Elapsed.Round(10 * time.Millisecond).String()},
	)

	out := renderSummary(title, rows)
	for _, failure := range s.Failures {
		out += fmt.Sprintf("\nfailed: %s: %s", failure.Path, failure.Reason)
	}
	return out
}
