package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"subfetch/internal/fingerprint"
	"subfetch/internal/videofile"
)

type hashEntry struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

func newHashCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "hash <file-or-dir>...",
		Short:       "Print the content fingerprint of video files",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := videofile.Expand(args)
			if err != nil {
				return err
			}
			entries := make([]hashEntry, 0, len(paths))
			for _, path := range paths {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat %s: %w", path, err)
				}
				cid, err := fingerprint.ComputeTimeout(cmd.Context(), path, fingerprint.DefaultTimeout)
				if err != nil {
					return err
				}
				entries = append(entries, hashEntry{Path: path, Size: info.Size(), Fingerprint: cid})
			}

			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			for _, entry := range entries {
				printf(cmd, "%s  %s  %s\n", entry.Fingerprint, strconv.FormatInt(entry.Size, 10), entry.Path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	return cmd
}
