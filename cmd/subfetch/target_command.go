package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"subfetch/internal/subtitles"
	"subfetch/internal/videofile"
)

func newTargetCommand() *cobra.Command {
	var index int
	var rawURL string
	var language string
	var resolve bool

	cmd := &cobra.Command{
		Use:         "target <video>",
		Short:       "Print where a subtitle candidate would be written",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(rawURL) == "" {
				return errors.New("--url is required")
			}
			if index < 0 {
				return errors.New("--index must not be negative")
			}
			video := args[0]
			if resolve {
				resolved, err := videofile.Resolve(video)
				if err != nil {
					return err
				}
				video = resolved
			}
			target, err := subtitles.TargetPath(video, index, subtitles.SubInfo{SURL: rawURL, Language: language})
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", target)
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "Position of the candidate in the accepted list")
	cmd.Flags().StringVar(&rawURL, "url", "", "Subtitle download URL")
	cmd.Flags().StringVar(&language, "language", "", "Subtitle language label")
	cmd.Flags().BoolVar(&resolve, "resolve", true, "Canonicalize the video path first (the file must exist)")
	return cmd
}
