package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subfetch/internal/history"
	"subfetch/internal/logging"
	"subfetch/internal/services"
	"subfetch/internal/subtitles"
	"subfetch/internal/videofile"
)

type fetchOptions struct {
	languages []string
	limit     int
	overwrite bool
	dryRun    bool
	json      bool
}

type fetchFailure struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type fetchReport struct {
	RunID    string                  `json:"run_id"`
	Results  []subtitles.FetchResult `json:"results"`
	Failures []fetchFailure          `json:"failures,omitempty"`
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch <file-or-dir>...",
		Short: "Download matching subtitles next to each video",
		Long: "Fetch fingerprints every named video (directories are scanned for video files),\n" +
			"looks the fingerprint up in the subtitle index, and writes the accepted\n" +
			"candidates as <stem>_<index>_<language>.<ext> beside the video.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, ctx, args, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.languages, "lang", "l", nil, "Language labels to keep (repeatable, caseless)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Maximum subtitles per video (0 uses the configured limit)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace subtitle files that already exist")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be written without downloading")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Emit a JSON report instead of tables")
	return cmd
}

func runFetch(cmd *cobra.Command, ctx *commandContext, args []string, opts fetchOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if opts.limit < 0 {
		return errors.New("--limit must not be negative")
	}
	videos, err := videofile.Expand(args)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		return fmt.Errorf("no video files found in %s", strings.Join(args, ", "))
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire fetch lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another subfetch run holds %s", cfg.LockPath())
	}
	defer func() { _ = lock.Unlock() }()

	logger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	runCtx := services.WithRequestID(cmd.Context(), runID)

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	svc, err := subtitles.NewService(cfg, logger, subtitles.WithHistory(store))
	if err != nil {
		return err
	}

	report := fetchReport{RunID: runID}
	for _, video := range videos {
		if err := runCtx.Err(); err != nil {
			return err
		}
		result, err := svc.Fetch(runCtx, subtitles.FetchRequest{
			Path:      video,
			Languages: opts.languages,
			Limit:     opts.limit,
			Overwrite: opts.overwrite,
			DryRun:    opts.dryRun,
		})
		if err != nil {
			logging.ErrorWithContext(logging.WithContext(services.WithVideo(runCtx, video), logger), "fetch failed", "fetch_failed",
				logging.Error(err),
				logging.String("error_kind", services.Kind(err)),
				logging.String(logging.FieldErrorHint, fetchHint(err)),
			)
			report.Failures = append(report.Failures, fetchFailure{Path: video, Kind: services.Kind(err), Error: err.Error()})
			continue
		}
		report.Results = append(report.Results, result)
	}

	if opts.json {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	} else {
		renderFetchReport(cmd, report, opts.dryRun)
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d videos failed", len(report.Failures), len(videos))
	}
	return nil
}

func fetchHint(err error) string {
	switch services.Kind(err) {
	case "path_resolution", "io":
		return "check the video path exists and is readable"
	case "transient":
		return "the subtitle index is unavailable; retry later"
	case "external_tool":
		return "the subtitle index rejected the request; run `subfetch doctor`"
	default:
		return "rerun with --log-level debug for details"
	}
}

func renderFetchReport(cmd *cobra.Command, report fetchReport, dryRun bool) {
	colorize := shouldColorize(cmd.OutOrStdout())
	headers := []string{"Status", "#", "Language", "Target", "Size"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight}

	for _, result := range report.Results {
		printf(cmd, "%s  %s (%d of %d candidates)\n", result.Fingerprint, result.VideoPath, len(result.Candidates), result.Available)
		if len(result.Candidates) == 0 {
			printf(cmd, "  no subtitles found\n")
			continue
		}
		rows := make([][]string, 0, len(result.Downloads)+len(result.Skipped))
		for _, d := range result.Downloads {
			status, size := statusLabel(statusOK, colorize), formatBytes(d.Bytes)
			if dryRun {
				status, size = "PLAN", "-"
			}
			rows = append(rows, []string{status, strconv.Itoa(d.Index), dashIfEmpty(d.Subtitle.Language), d.TargetPath, size})
		}
		for _, s := range result.Skipped {
			kind := statusWarn
			if s.Reason == subtitles.SkipExists {
				kind = statusSkip
			}
			rows = append(rows, []string{statusLabel(kind, colorize) + " " + string(s.Reason), strconv.Itoa(s.Index), dashIfEmpty(s.Subtitle.Language), dashIfEmpty(s.TargetPath), "-"})
		}
		sort.SliceStable(rows, func(i, j int) bool {
			a, _ := strconv.Atoi(rows[i][1])
			b, _ := strconv.Atoi(rows[j][1])
			return a < b
		})
		printf(cmd, "%s\n", renderTable(headers, rows, aligns, colorize))
	}
	for _, failure := range report.Failures {
		printf(cmd, "%s  %s: %s\n", statusLabel(statusError, colorize), failure.Path, failure.Error)
	}
}
