package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kawaragi/meguri/internal/pipeline"
	"github.com/kawaragi/meguri/internal/rules"
	"github.com/kawaragi/meguri/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchOutDir      string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Curate many episodes from a file",
	Long: `Batch reads episodes from a file (one per line, "id<TAB>title") and
curates them concurrently. Each episode gets its own JSON report in
the output directory; a summary prints at the end.

Example:
  meguri batch episodes.tsv --concurrency 3 --out reports/`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "concurrent curation workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&batchOutDir, "out", "curation-reports", "output directory for JSON reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = batchConcurrency

	lib, err := rules.Load(cfg.Rules.RulesFile, cfg.Rules.NoiseFile)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	comments, search := buildFetchers(cfg)
	p := pipeline.New(cfg, lib, comments, search, newLogger())

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.SubjectID, r.Err)
			continue
		}
		path := filepath.Join(batchOutDir, r.SubjectID+".json")
		if err := renderer.RenderJSON(r.Result, path); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.SubjectID, err)
			continue
		}
		succeeded++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s: %d locations, %d items\n",
				r.SubjectID, len(r.Result.LocationCandidates), len(r.Result.ItemCandidates))
		}
	}

	fmt.Printf("Batch complete: %d succeeded, %d failed, reports in %s\n", succeeded, failed, batchOutDir)
	return nil
}
