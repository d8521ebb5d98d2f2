package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subfetch/internal/fingerprint"
	"subfetch/internal/history"
	"subfetch/internal/language"
	"subfetch/internal/media/ffprobe"
	"subfetch/internal/videofile"
)

type mediaSummary struct {
	Format            string   `json:"format"`
	DurationSeconds   float64  `json:"duration_seconds"`
	BitRate           int64    `json:"bit_rate"`
	VideoStreams      int      `json:"video_streams"`
	AudioStreams      int      `json:"audio_streams"`
	SubtitleStreams   int      `json:"subtitle_streams"`
	SubtitleLanguages []string `json:"subtitle_languages,omitempty"`
}

type infoReport struct {
	Path         string        `json:"path"`
	Size         int64         `json:"size"`
	Fingerprint  string        `json:"fingerprint"`
	PreviouslyAt *time.Time    `json:"previously_seen_at,omitempty"`
	Changed      bool          `json:"changed_since_last_seen"`
	Media        *mediaSummary `json:"media,omitempty"`
	ProbeError   string        `json:"probe_error,omitempty"`
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show the fingerprint and media summary of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := videofile.Resolve(args[0])
			if err != nil {
				return err
			}
			stat, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if stat.IsDir() {
				return fmt.Errorf("%s is a directory", path)
			}
			cid, err := fingerprint.ComputeTimeout(cmd.Context(), path, fingerprint.DefaultTimeout)
			if err != nil {
				return err
			}
			report := infoReport{Path: path, Size: stat.Size(), Fingerprint: cid}

			err = ctx.withHistory(func(store *history.Store) error {
				previous, ok, err := store.LookupFingerprint(cmd.Context(), path)
				if err != nil || !ok {
					return err
				}
				seen := previous.ComputedAt
				report.PreviouslyAt = &seen
				report.Changed = previous.CID != cid || previous.Size != stat.Size()
				return nil
			})
			if err != nil {
				return err
			}

			if cfg.Probe.Enabled {
				probed, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
				if err != nil {
					report.ProbeError = err.Error()
				} else {
					report.Media = &mediaSummary{
						Format:            probed.FormatName(),
						DurationSeconds:   probed.DurationSeconds(),
						BitRate:           probed.BitRate(),
						VideoStreams:      probed.VideoStreamCount(),
						AudioStreams:      probed.AudioStreamCount(),
						SubtitleStreams:   probed.SubtitleStreamCount(),
						SubtitleLanguages: probed.SubtitleLanguages(),
					}
				}
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			renderInfo(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	return cmd
}

func renderInfo(cmd *cobra.Command, report infoReport) {
	printf(cmd, "Path:         %s\n", report.Path)
	printf(cmd, "Size:         %s (%d bytes)\n", formatBytes(report.Size), report.Size)
	printf(cmd, "Fingerprint:  %s\n", report.Fingerprint)
	if report.PreviouslyAt != nil {
		printf(cmd, "Last seen:    %s (changed: %s)\n", report.PreviouslyAt.Local().Format(time.RFC3339), yesNo(report.Changed))
	}
	switch {
	case report.Media != nil:
		m := report.Media
		printf(cmd, "Container:    %s\n", dashIfEmpty(m.Format))
		printf(cmd, "Duration:     %s\n", (time.Duration(m.DurationSeconds * float64(time.Second))).Round(time.Second))
		if m.BitRate > 0 {
			printf(cmd, "Bit rate:     %s kb/s\n", strconv.FormatInt(m.BitRate/1000, 10))
		}
		printf(cmd, "Streams:      %d video, %d audio, %d subtitle\n", m.VideoStreams, m.AudioStreams, m.SubtitleStreams)
		if len(m.SubtitleLanguages) > 0 {
			names := make([]string, 0, len(m.SubtitleLanguages))
			for _, code := range m.SubtitleLanguages {
				names = append(names, language.DisplayName(code))
			}
			printf(cmd, "Embedded subs: %s\n", strings.Join(names, ", "))
		}
	case report.ProbeError != "":
		printf(cmd, "Probe:        unavailable (%s)\n", report.ProbeError)
	}
}
