// docdedup is a near-duplicate document detection CLI.
//
// It maintains a SQLite corpus of extracted plain-text documents and finds
// near- and exact-duplicates among them using MinHash signatures and an LSH
// index. Typical flow:
//
//	docdedup add letters/*.txt
//	docdedup check draft.txt
//	docdedup dedupe --save
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banks1923/docdedup/internal/dedup"
	"github.com/banks1923/docdedup/internal/storage"
)

const defaultDBPath = ".docdedup/docdedup.db"

var (
	cfg      dedup.Config
	store    storage.Storage
	registry *dedup.Registry

	flagDB        string
	flagThreshold float64
	flagConfig    string
	flagJSON      bool
)

var rootCmd = &cobra.Command{
	Use:   "docdedup",
	Short: "Near-duplicate document detection",
	Long: `docdedup finds near- and exact-duplicate documents in a text corpus.

Documents are shingled into k-grams, fingerprinted with MinHash signatures,
and indexed with locality-sensitive hashing, so duplicate lookup stays
sub-linear in corpus size. Reported similarities are always exact
full-signature estimates; the LSH index only narrows the candidate set.

Configuration comes from defaults, then DOCDEDUP_* environment variables,
then --config YAML, then flags, each layer overriding the previous.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = dedup.ConfigFromEnv()
		if err != nil {
			return err
		}
		if flagConfig != "" {
			cfg, err = dedup.LoadConfigFile(flagConfig)
			if err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("threshold") {
			cfg.Threshold = flagThreshold
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		registry, err = dedup.NewRegistry(cfg)
		if err != nil {
			return err
		}

		store, err = storage.New(flagDB)
		if err != nil {
			return fmt.Errorf("opening store %s: %w", flagDB, err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", defaultDBPath, "Path to the document store database")
	rootCmd.PersistentFlags().Float64Var(&flagThreshold, "threshold", dedup.DefaultConfig().Threshold, "Similarity threshold for near-duplicates (0.0-1.0)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Emit JSON instead of text output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
