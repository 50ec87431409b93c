package cli

import (
	"fmt"
	"os"

	"github.com/sentinel-audit/sentinel/internal/gen"
	"github.com/spf13/cobra"
)

var (
	genDir   string
	genCount int
	genSeed  int64
)

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate demo loan contracts",
	Long: `Gen writes fixture sustainability-linked loan contracts covering the
three audit outcome families: a healthy boreal site, a degraded preservation
zone, and a contract that never discloses its Project Site coordinates.

Example:
  sentinel gen
  sentinel gen --out ./contracts --count 3 --seed 42`,
	RunE: runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().StringVar(&genDir, "out", "./contracts", "output directory")
	genCmd.Flags().IntVar(&genCount, "count", 2, "contracts per category")
	genCmd.Flags().Int64Var(&genSeed, "seed", 1, "random seed (same seed, same dataset)")
}

func runGen(cmd *cobra.Command, args []string) error {
	paths, err := gen.WriteDataset(genDir, genCount, genSeed)
	if err != nil {
		return fmt.Errorf("generate contracts: %w", err)
	}

	for _, p := range paths {
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s\n", p)
		}
	}
	fmt.Printf("✓ Wrote %d contracts to %s\n", len(paths), genDir)
	return nil
}
