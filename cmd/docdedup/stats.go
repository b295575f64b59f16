package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banks1923/docdedup/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus and index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		count, err := store.CountDocuments(ctx)
		if err != nil {
			return err
		}
		runs, err := store.ListRuns(ctx, 5)
		if err != nil {
			return err
		}

		detector, err := corpusDetector(ctx)
		if err != nil {
			return err
		}

		if flagJSON {
			return report.WriteJSON(os.Stdout, map[string]interface{}{
				"documents": count,
				"buckets":   detector.BucketCount(),
				"threshold": cfg.Threshold,
				"num_perm":  cfg.NumPerm,
				"num_bands": cfg.NumBands,
				"runs":      runs,
			})
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Corpus Statistics ==="))
		fmt.Printf("  Documents:  %d\n", count)
		fmt.Printf("  Buckets:    %d\n", detector.BucketCount())
		fmt.Printf("  Threshold:  %.2f\n", cfg.Threshold)
		fmt.Printf("  Signature:  %d perms × %d bands\n", cfg.NumPerm, cfg.NumBands)
		fmt.Println()

		fmt.Printf("%s\n", yellow("Recent Runs:"))
		if len(runs) == 0 {
			fmt.Printf("  %s\n", gray("No saved runs"))
			return nil
		}
		for _, r := range runs {
			fmt.Printf("  %s  %s  total=%d unique=%d duplicates=%d\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.Total, r.Unique, r.Duplicates)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
