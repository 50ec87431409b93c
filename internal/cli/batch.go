package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sentinel-audit/sentinel/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Audit a directory of contracts in parallel",
	Long: `Batch audits every contract in a directory concurrently:
- Discover .txt contracts in the directory
- Run the full four-stage audit per contract with a worker pool
- Seal an individual report per contract

Example:
  sentinel batch ./contracts --offline
  sentinel batch ./contracts --concurrency 8 --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&staticDir, "static-dir", "", "directory for sanitized artifacts and evidence images")
	batchCmd.Flags().StringVar(&reportsDir, "reports-dir", "", "directory for sealed reports")
	addLLMFlags(batchCmd)
	addBackendFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Sentinel Batch Audit\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Contracts:  %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:    %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Timeout:    %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg := buildConfig()
	cfg.Concurrency.Workers = concurrency

	auditor, err := buildAuditor(ctx, cfg, true, true)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(auditor, cfg.Concurrency.Workers)
	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("process directory: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Err)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: %s (margin %g bps, seal %.16s…)\n",
			result.Path,
			result.Outcome.Settlement.Status,
			result.Outcome.Settlement.FinalMarginBps,
			result.Outcome.Settlement.DigitalSeal)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d contracts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Reports:   %s\n", cfg.Storage.ReportsDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
