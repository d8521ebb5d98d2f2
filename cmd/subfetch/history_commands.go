package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subfetch/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the download history",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent subtitle downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				downloads, err := store.ListDownloads(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, downloads)
				}
				if len(downloads) == 0 {
					printf(cmd, "No downloads recorded\n")
					return nil
				}
				rows := make([][]string, 0, len(downloads))
				for _, d := range downloads {
					rows = append(rows, []string{
						strconv.FormatInt(d.ID, 10),
						d.CreatedAt.Local().Format(time.DateTime),
						dashIfEmpty(d.Language),
						formatBytes(d.Bytes),
						d.TargetPath,
					})
				}
				headers := []string{"ID", "When", "Language", "Size", "Target"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft}
				printf(cmd, "%s\n", renderTable(headers, rows, aligns, shouldColorize(cmd.OutOrStdout())))
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printf(cmd, "%d downloads across %d fingerprinted videos\n", stats.Downloads, stats.Fingerprints)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every recorded fingerprint and download",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				printf(cmd, "Removed %d downloads from history\n", removed)
				return nil
			})
		},
	}
}
