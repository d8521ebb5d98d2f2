package main

import (
	"errors"

	"github.com/spf13/cobra"

	"subfetch/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, tools, and subtitle index reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			colorize := shouldColorize(cmd.OutOrStdout())

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				kind := statusOK
				switch {
				case !result.Passed && result.Optional:
					kind = statusWarn
				case !result.Passed:
					kind = statusError
				}
				rows = append(rows, []string{result.Name, statusLabel(kind, colorize), dashIfEmpty(result.Detail)})
			}
			printf(cmd, "%s\n", renderTable([]string{"Check", "Status", "Detail"}, rows, nil, colorize))

			if preflight.Failed(results) {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}
}
