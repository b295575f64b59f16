package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banks1923/docdedup/internal/types"
)

var addCmd = &cobra.Command{
	Use:   "add [files...]",
	Short: "Ingest plain-text documents into the corpus",
	Long: `Ingest plain-text files into the document store.

Each file becomes one document whose id is the file's base name unless --id
is given (single file only). Content is stored as-is: extraction and cleaning
(HTML stripping, OCR, encoding repair) must happen before ingestion.

With no arguments, reads one document from stdin (--id required).

Examples:
  # Ingest a directory of exported emails
  docdedup add export/*.txt

  # Ingest from stdin under an explicit id
  cat letter.txt | docdedup add --id letter-2024-03`,
	RunE: func(cmd *cobra.Command, args []string) error {
		explicitID, _ := cmd.Flags().GetString("id")
		ctx := context.Background()

		if len(args) == 0 {
			if explicitID == "" {
				return fmt.Errorf("--id is required when reading from stdin")
			}
			content, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			return saveOne(ctx, explicitID, string(content), "stdin")
		}

		if explicitID != "" && len(args) > 1 {
			return fmt.Errorf("--id can only be used with a single file")
		}

		green := color.New(color.FgGreen).SprintFunc()
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			id := explicitID
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			if err := saveOne(ctx, id, string(content), path); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", green("✓"), id)
		}
		return nil
	},
}

func saveOne(ctx context.Context, id, content, source string) error {
	return store.SaveDocument(ctx, &types.Document{
		ID:      id,
		Content: content,
		Source:  source,
	})
}

func init() {
	addCmd.Flags().String("id", "", "Explicit document id (single file or stdin)")
	rootCmd.AddCommand(addCmd)
}
