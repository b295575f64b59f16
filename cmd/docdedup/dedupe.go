package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banks1923/docdedup/internal/dedup"
	"github.com/banks1923/docdedup/internal/report"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Deduplicate the stored corpus",
	Long: `Run batch deduplication over every document in the store.

Documents are indexed, duplicate groups are resolved, and a report with
per-group average similarities is printed. The leader of each group is the
earliest-ingested document; pick which copies to delete by your own recency
or quality criteria, not by leadership.

Examples:
  # Report duplicates at the default 0.8 threshold
  docdedup dedupe

  # Looser matching, machine-readable output
  docdedup dedupe --threshold 0.7 --json

  # Persist the report for later review
  docdedup dedupe --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		save, _ := cmd.Flags().GetBool("save")
		ctx := context.Background()

		docs, err := store.ListDocuments(ctx, 0)
		if err != nil {
			return fmt.Errorf("loading corpus: %w", err)
		}

		batch := make([]dedup.BatchDocument, 0, len(docs))
		for _, doc := range docs {
			batch = append(batch, dedup.BatchDocument{
				ID:       doc.ID,
				Content:  doc.Content,
				Metadata: doc.Metadata,
			})
		}

		detector, err := registry.Get(cfg.Threshold)
		if err != nil {
			return err
		}
		result, err := detector.BatchDeduplicate(batch)
		if err != nil {
			return err
		}
		if err := result.Validate(); err != nil {
			return fmt.Errorf("inconsistent batch result: %w", err)
		}

		if save {
			run := report.RunFromResult(result)
			if err := store.SaveRun(ctx, run); err != nil {
				return fmt.Errorf("saving run: %w", err)
			}
			if !flagJSON {
				gray := color.New(color.FgHiBlack).SprintFunc()
				fmt.Printf("%s\n", gray("saved run "+run.ID))
			}
		}

		if flagJSON {
			return report.WriteJSON(os.Stdout, result)
		}
		report.WriteBatchResult(os.Stdout, result)
		return nil
	},
}

func init() {
	dedupeCmd.Flags().Bool("save", false, "Persist the report to the store")
	rootCmd.AddCommand(dedupeCmd)
}
