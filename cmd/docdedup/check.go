package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/banks1923/docdedup/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check a document against the stored corpus",
	Long: `Check whether a document duplicates anything in the stored corpus.

The document is fingerprinted and compared against the corpus without being
added to it. Every reported match meets the similarity threshold; matches
above 0.99 are flagged as exact duplicates.

With no argument, reads the document from stdin.

Examples:
  docdedup check draft.txt
  docdedup check draft.txt --threshold 0.7 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content []byte
		var err error
		if len(args) == 1 {
			content, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
		} else {
			content, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}

		detector, err := corpusDetector(context.Background())
		if err != nil {
			return err
		}

		matches, err := detector.CheckDuplicate(string(content))
		if err != nil {
			return err
		}

		if flagJSON {
			return report.WriteJSON(os.Stdout, matches)
		}
		report.WriteMatches(os.Stdout, matches)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
