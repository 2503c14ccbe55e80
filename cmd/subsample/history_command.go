package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subsample/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sampling runs from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			headers := []string{"Run", "Started", "Seed", "Selected", "Written", "Missing", "Failed", "Mode", "Destination"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					strconv.FormatInt(run.Seed, 10),
					strconv.Itoa(run.Selected),
					strconv.Itoa(run.Written()),
					strconv.Itoa(run.Missing),
					strconv.Itoa(run.Failed),
					runMode(run),
					run.Destination,
				})
			}
			aligns := []columnAlignment{
				alignLeft, alignLeft, alignRight, alignRight, alignRight,
				alignRight, alignRight, alignLeft, alignLeft,
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func runMode(run ledger.Run) string {
	if run.CopyOnly {
		return "copy"
	}
	return "link"
}
