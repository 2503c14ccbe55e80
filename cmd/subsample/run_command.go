package main

import (
	"os"

	"github.com/spf13/cobra"

	"subsample/internal/logging"
	"subsample/internal/subset"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		srcFlag    string
		dstFlag    string
		countFlag  int
		seedFlag   int64
		copyFlag   bool
		strictFlag bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sample records and materialize their wavs into a new dataset",
		Long: `Selects a seeded random subset of the source dataset's records, writes a
filtered metadata.csv, and places each selected wav into the destination via
hardlink with a copy fallback (or copy-only with --copy).

By default the process exits zero even when individual assets were missing or
failed to transfer; those show up as [WARN]/[ERROR] lines and in the final
tally. Use --strict to turn record-level failures into a non-zero exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			seed := seedFlag
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Sampling.DefaultSeed
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			store, err := ctx.openLedger()
			if err != nil {
				// The ledger is advisory; the run proceeds without history.
				logger.Warn("run ledger unavailable", logging.Error(err))
				store = nil
			} else {
				defer store.Close()
			}

			runner := subset.NewRunner(cfg, store, logger, cmd.OutOrStdout())
			if isTerminal(os.Stdout) {
				runner = runner.WithProgress(os.Stdout)
			}

			_, err = runner.Run(cmd.Context(), subset.Request{
				Source:      srcFlag,
				Destination: dstFlag,
				Count:       countFlag,
				Seed:        seed,
				CopyOnly:    copyFlag || cfg.Materialize.CopyOnly,
				Strict:      strictFlag || cfg.Sampling.Strict,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&srcFlag, "src", "", "Dataset root containing metadata.csv and wavs/")
	cmd.Flags().StringVar(&dstFlag, "dst", "", "Output directory (will contain metadata.csv and wavs/)")
	cmd.Flags().IntVar(&countFlag, "count", 0, "Number of items to keep")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Random seed (default from config)")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy files instead of hardlinking")
	cmd.Flags().BoolVar(&strictFlag, "strict", false, "Exit non-zero when any selected asset failed")
	_ = cmd.MarkFlagRequired("src")
	_ = cmd.MarkFlagRequired("dst")
	_ = cmd.MarkFlagRequired("count")

	return cmd
}
