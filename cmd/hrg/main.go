// Package main provides the HRG CLI entry point.
package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/orneryd/hrg/pkg/config"
	"github.com/orneryd/hrg/pkg/dataset"
	"github.com/orneryd/hrg/pkg/eval"
	"github.com/orneryd/hrg/pkg/storage"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrg",
		Short: "HRG - Approximate nearest neighbor index for metric spaces",
		Long: `HRG is an in-memory approximate nearest neighbor index built on a
hierarchical relative-neighborhood graph.

Features:
  - Online insertion with tunable insert cost vs. query recall
  - Greedy k-NN search over arbitrary metric-space keys
  - Graph training and freshening to amortize quality over time
  - Recall evaluation harness for packed binary descriptor datasets`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("HRG v%s (%s)\n", version, commit)
		},
	})

	recallCmd := &cobra.Command{
		Use:   "recall",
		Short: "Run the recall evaluation harness",
		Long: `Run the recall evaluation harness against a packed descriptor file.

Keys are inserted in progressively doubling windows; after each window,
recall@k is measured for a range of k against a brute-force oracle and
emitted as CSV rows on stdout. Progress goes to stderr.`,
		RunE: runRecall,
	}
	recallCmd.Flags().StringP("config", "c", "", "Path to YAML config file")
	rootCmd.AddCommand(recallCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRecall(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.LoadRecall(configPath)
	if err != nil {
		return err
	}

	log.SetOutput(os.Stderr)
	log.Printf("reading %d descriptors of size %d bytes from file %q",
		cfg.TotalDescriptors(), dataset.DescriptorSize, cfg.DescriptorPath)
	keys, err := dataset.ReadDescriptors(cfg.DescriptorPath, cfg.TotalDescriptors())
	if err != nil {
		return err
	}
	log.Printf("done")

	harness := &eval.Harness{
		Keys:          keys,
		HighestPower:  cfg.HighestPower,
		NumQueries:    cfg.NumQueries,
		HighestKnn:    cfg.HighestKnn,
		Freshens:      cfg.FreshensPerInsert,
		TrainingPairs: cfg.TrainingPairs,
		Rng:           rand.New(rand.NewPCG(cfg.Seed, 0)),
		Dataset:       cfg.DescriptorPath,
	}
	if cfg.CacheEnabled {
		cache, err := storage.NewOracleCache(cfg.CacheDir)
		if err != nil {
			return err
		}
		defer cache.Close()
		harness.Cache = cache
	}

	return harness.Run(eval.NewReporter(os.Stdout))
}
