package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banks1923/docdedup/internal/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare <file-a> <file-b>",
	Short: "Compute the similarity of two documents",
	Long: `Compute the exact signature similarity of two documents.

This is a direct pairwise comparison: neither document touches the corpus or
the index. Useful for ad hoc "are these the same letter?" questions.

Examples:
  docdedup compare scan-1.txt scan-2.txt`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		b, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[1], err)
		}

		detector, err := registry.Get(cfg.Threshold)
		if err != nil {
			return err
		}
		sim := detector.Similarity(string(a), string(b))

		if flagJSON {
			return report.WriteJSON(os.Stdout, map[string]interface{}{
				"a":          args[0],
				"b":          args[1],
				"similarity": sim,
			})
		}

		kind := color.New(color.FgGreen).Sprint("distinct")
		switch {
		case sim > 0.99:
			kind = color.New(color.FgRed).Sprint("exact duplicates")
		case sim >= cfg.Threshold:
			kind = color.New(color.FgYellow).Sprint("near-duplicates")
		}
		fmt.Printf("similarity %.3f (%s)\n", sim, kind)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
