package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"subsample/internal/verify"
)

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "verify <dataset-root>",
		Short:       "Check a dataset for index/asset consistency",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := verify.Check(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dataset: %s\n", report.Root)
			fmt.Fprintf(out, "Records: %d\n", report.Records)
			printFinding(out, "Missing assets", report.MissingAssets)
			printFinding(out, "Duplicate ids", report.DuplicateIDs)
			printFinding(out, "Orphan wavs", report.OrphanAssets)
			printFinding(out, "Non-NFC text", report.NotNFC)

			if !report.Consistent() {
				return fmt.Errorf("dataset inconsistent: %d missing assets, %d duplicate ids",
					len(report.MissingAssets), len(report.DuplicateIDs))
			}
			fmt.Fprintln(out, "Dataset consistent")
			return nil
		},
	}
}

const findingPreviewLimit = 10

func printFinding(out io.Writer, label string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(out, "%s: none\n", label)
		return
	}
	preview := values
	suffix := ""
	if len(preview) > findingPreviewLimit {
		preview = preview[:findingPreviewLimit]
		suffix = fmt.Sprintf(", ... (%d total)", len(values))
	}
	fmt.Fprintf(out, "%s (%d): %s%s\n", label, len(values), strings.Join(preview, ", "), suffix)
}
